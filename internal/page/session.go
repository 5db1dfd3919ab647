// Package page assembles one page session: the site client, the
// notification sink, the render target, the journal and the controllers.
package page

import (
	"fmt"
	"io"

	"tutorly/internal/composer"
	"tutorly/internal/config"
	"tutorly/internal/model"
	"tutorly/internal/notify"
	"tutorly/internal/reaction"
	"tutorly/internal/siteclient"
	"tutorly/internal/store/journal"
	"tutorly/internal/view"
)

type Session struct {
	Client    *siteclient.HTTPClient
	Sink      notify.Sink
	View      *view.Memory
	Reactions *reaction.Controller
	Journal   *journal.DB

	cfg config.Config
}

// Open builds a session from cfg; notifications are written to out.
func Open(cfg config.Config, out io.Writer) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	client, err := siteclient.NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Client: client,
		Sink:   notify.NewTerminal(out),
		View:   view.NewMemory(),
		cfg:    cfg,
	}
	opts := reaction.Options{
		ReenableOnReject: cfg.Reactions.ReenableOnReject,
		UnreachableText:  cfg.Notify.UnreachableText,
		RejectedText:     cfg.Notify.RejectedText,
	}
	if cfg.Storage.DBPath != "" {
		db, err := journal.Open(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.Journal = db
		opts.Journal = db
	}
	s.Reactions = reaction.New(client, s.Sink, s.View, opts)
	return s, nil
}

// Composer returns the comment form of a tutorial page.
func (s *Session) Composer(tutorialID int64) (*composer.Composer, error) {
	if err := (model.EntityRef{Kind: model.Tutorial, ID: tutorialID}).Validate(); err != nil {
		return nil, err
	}
	opts := composer.Options{
		ResetOnSuccess:  s.cfg.Composer.ResetOnSuccess,
		ConfirmDismiss:  s.cfg.Notify.ConfirmDismiss,
		QueuedText:      s.cfg.Notify.CommentQueuedText,
		UnreachableText: s.cfg.Notify.UnreachableText,
	}
	if s.Journal != nil {
		opts.Journal = s.Journal
	}
	return composer.New(tutorialID, s.Client, s.Sink, s.View, opts), nil
}

func (s *Session) Close() error {
	if s.Journal != nil {
		return s.Journal.Close()
	}
	return nil
}
