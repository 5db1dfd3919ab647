package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tutorly/internal/config"
	"tutorly/internal/logging"
	"tutorly/internal/metrics"
	"tutorly/internal/theme"
)

var (
	cfgPath     string
	metricsAddr string
	cfg         config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tutorly",
	Short: "Vote, like and comment on a tutorial site from the terminal",
	Long:  theme.Banner(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w (run `tutorly init` first)", cfgPath, err)
		}
		cfg = loaded
		if metricsAddr != "" {
			cfg.Metrics.Addr = metricsAddr
		}
		logging.SetLevel(cfg.Log.Level)
		metrics.StartServer(cfg.Metrics.Addr)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./tutorly.yaml", "config path")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address")
	rootCmd.AddCommand(initCmd(), reactCmd(), commentCmd(), historyCmd(), routesCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
