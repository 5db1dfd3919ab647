package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tutorly/internal/analytics"
	"tutorly/internal/cmdlog"
	"tutorly/internal/composer"
	"tutorly/internal/config"
	"tutorly/internal/model"
	"tutorly/internal/page"
	"tutorly/internal/store/journal"
	"tutorly/internal/theme"
)

func initCmd() *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:   "init",
		Short: "Create a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("init", func() error {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				theme.PrintBanner()
				fmt.Println("Config written to:", abs)
				return nil
			})
		},
	}
	c.Flags().StringVar(&path, "path", "./tutorly.yaml", "path to write config")
	return c
}

func reactCmd() *cobra.Command {
	var (
		entity, action string
		id             int64
		count          int
		reacted        bool
	)
	c := &cobra.Command{
		Use:   "react",
		Short: "Upvote, downvote or like a tutorial or a comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("react", func() error {
				kind, err := model.ParseEntityKind(entity)
				if err != nil {
					return err
				}
				act, err := model.ParseAction(action)
				if err != nil {
					return err
				}
				s, err := page.Open(cfg, os.Stdout)
				if err != nil {
					return err
				}
				defer s.Close()

				ref := model.EntityRef{Kind: kind, ID: id}
				state := model.Neutral
				if reacted {
					state = model.Reacted
				}
				if err := s.Reactions.Bind(act, model.ReactionTarget{EntityRef: ref, Count: count, State: state}); err != nil {
					return err
				}
				res, err := s.Reactions.Activate(cmd.Context(), ref, act)
				if err != nil {
					return err
				}
				shown, _ := s.Reactions.Target(ref, act)
				fmt.Printf("%s %s: %s count=%d state=%s\n", ref, act, res.Outcome, shown.Count, shown.State)
				return nil
			})
		},
	}
	c.Flags().StringVar(&entity, "entity", "tutorial", "tutorial or comment")
	c.Flags().Int64Var(&id, "id", 0, "tutorial or comment id")
	c.Flags().StringVar(&action, "action", "like", "like, upvote or downvote")
	c.Flags().IntVar(&count, "count", 0, "currently displayed count")
	c.Flags().BoolVar(&reacted, "reacted", false, "control is currently shown as liked")
	_ = c.MarkFlagRequired("id")
	return c
}

func commentCmd() *cobra.Command {
	var (
		tutorialID, replyTo    int64
		title, body, replyName string
		noReplies, notify      bool
	)
	c := &cobra.Command{
		Use:   "comment",
		Short: "Post a comment (optionally as a reply) on a tutorial",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("comment", func() error {
				s, err := page.Open(cfg, os.Stdout)
				if err != nil {
					return err
				}
				defer s.Close()

				form, err := s.Composer(tutorialID)
				if err != nil {
					return err
				}
				form.SetTitle(title)
				form.SetBody(body)
				form.SetAllowReplies(!noReplies)
				form.SetNotifyReplies(notify)
				if replyTo > 0 {
					form.BeginReply(replyTo, replyName)
				}
				res := form.Submit(cmd.Context())
				fmt.Printf("comment on tutorial:%d: %s\n", tutorialID, res.Outcome)
				if res.Outcome != composer.Queued {
					return errors.New("comment was not accepted")
				}
				return nil
			})
		},
	}
	c.Flags().Int64Var(&tutorialID, "tutorial", 0, "tutorial id")
	c.Flags().StringVar(&title, "title", "", "comment title")
	c.Flags().StringVar(&body, "body", "", "comment body")
	c.Flags().BoolVar(&noReplies, "no-replies", false, "do not allow replies")
	c.Flags().BoolVar(&notify, "notify", true, "email me on replies")
	c.Flags().Int64Var(&replyTo, "reply-to", 0, "comment id to reply to")
	c.Flags().StringVar(&replyName, "reply-title", "", "title of the comment being replied to")
	_ = c.MarkFlagRequired("tutorial")
	return c
}

func historyCmd() *cobra.Command {
	var since time.Duration
	c := &cobra.Command{
		Use:   "history",
		Short: "Show hourly outcomes from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("history", func() error {
				if cfg.Storage.DBPath == "" {
					return errors.New("storage.dbPath is empty; the journal is disabled")
				}
				db, err := journal.Open(cfg.Storage.DBPath)
				if err != nil {
					return err
				}
				defer db.Close()
				now := time.Now().UTC()
				events, err := db.LoadEventsRange(cmd.Context(), now.Add(-since), now.Add(time.Second), "")
				if err != nil {
					return err
				}
				b := analytics.HourlyOutcomes(events)
				for _, k := range analytics.SortedBucketKeys(b) {
					for _, label := range analytics.SortedCounterKeys(b[k]) {
						fmt.Printf("%s %-22s %d\n", k.Format("2006-01-02 15:00"), label, b[k][label])
					}
				}
				return nil
			})
		},
	}
	c.Flags().DurationVar(&since, "since", 24*time.Hour, "look-back window")
	return c
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the resolved endpoint urls",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("routes", func() error {
				s, err := page.Open(cfg, os.Stdout)
				if err != nil {
					return err
				}
				defer s.Close()
				for _, e := range s.Client.Routes().Endpoints() {
					u, _ := s.Client.URL(e)
					fmt.Printf("%-18s %s\n", e, u)
				}
				return nil
			})
		},
	}
}
