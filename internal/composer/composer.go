// Package composer owns the comment form: its fields, the linked
// allow/notify reply toggles and the reply-to context.
package composer

import (
	"context"
	"sync"
	"time"

	"tutorly/internal/logging"
	"tutorly/internal/metrics"
	"tutorly/internal/model"
	"tutorly/internal/notify"
	"tutorly/internal/siteclient"
	"tutorly/internal/store/journal"
	"tutorly/internal/view"
)

// Outcome is the terminal result of one submission.
type Outcome int

const (
	Queued Outcome = iota + 1
	Refused
	Unreachable
)

func (o Outcome) String() string {
	switch o {
	case Queued:
		return "queued"
	case Refused:
		return "refused"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// Result reports one submission and the draft that was sent.
type Result struct {
	Outcome Outcome
	Draft   model.CommentDraft
	Error   string
}

// Options configures a Composer.
type Options struct {
	ResetOnSuccess  bool
	ConfirmDismiss  time.Duration
	QueuedText      string
	UnreachableText string
	Journal         journal.Writer
}

type form struct {
	title          string
	body           string
	allowReplies   bool
	notifyReplies  bool
	notifyDisabled bool
}

// Composer is the comment form of one tutorial page.
type Composer struct {
	gw         siteclient.Gateway
	sink       notify.Sink
	page       view.Renderer
	opts       Options
	tutorialID int64
	now        func() time.Time

	mu    sync.Mutex
	form  form
	reply *model.ReplyContext
}

// New renders an empty form with replies allowed and reply notifications on.
func New(tutorialID int64, gw siteclient.Gateway, sink notify.Sink, page view.Renderer, opts Options) *Composer {
	c := &Composer{
		gw:         gw,
		sink:       sink,
		page:       page,
		opts:       opts,
		tutorialID: tutorialID,
		now:        time.Now,
		form:       form{allowReplies: true, notifyReplies: true},
	}
	page.SetChecked(view.AllowReplies, true)
	page.SetChecked(view.NotifyReplies, true)
	page.SetDisabled(view.NotifyReplies, false)
	page.SetHidden(view.ReplyBanner, true)
	return c
}

func (c *Composer) SetTitle(s string) {
	c.mu.Lock()
	c.form.title = s
	c.mu.Unlock()
}

func (c *Composer) SetBody(s string) {
	c.mu.Lock()
	c.form.body = s
	c.mu.Unlock()
}

// SetAllowReplies drives the notify toggle: off forces it unchecked and
// disabled, on checks and enables it.
func (c *Composer) SetAllowReplies(on bool) {
	c.mu.Lock()
	c.form.allowReplies = on
	c.form.notifyReplies = on
	c.form.notifyDisabled = !on
	c.mu.Unlock()
	c.page.SetChecked(view.AllowReplies, on)
	c.page.SetChecked(view.NotifyReplies, on)
	c.page.SetDisabled(view.NotifyReplies, !on)
}

// SetNotifyReplies is ignored while the toggle is disabled.
func (c *Composer) SetNotifyReplies(on bool) {
	c.mu.Lock()
	if c.form.notifyDisabled {
		c.mu.Unlock()
		return
	}
	c.form.notifyReplies = on
	c.mu.Unlock()
	c.page.SetChecked(view.NotifyReplies, on)
}

// BeginReply targets a comment; it replaces any previous reply target.
func (c *Composer) BeginReply(commentID int64, title string) {
	c.mu.Lock()
	c.reply = &model.ReplyContext{CommentID: commentID, Title: title}
	c.mu.Unlock()
	c.page.SetText(view.ReplyBannerTitle, title)
	c.page.SetHidden(view.ReplyBanner, false)
	c.page.Focus(view.TitleField)
}

// CancelReply drops the reply target and hides the banner.
func (c *Composer) CancelReply() {
	c.mu.Lock()
	c.reply = nil
	c.mu.Unlock()
	c.page.SetText(view.ReplyBannerTitle, "")
	c.page.SetHidden(view.ReplyBanner, true)
}

// Reply returns the current reply target, if any.
func (c *Composer) Reply() (model.ReplyContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reply == nil {
		return model.ReplyContext{}, false
	}
	return *c.reply, true
}

// Draft builds the payload from the form and the reply target.
func (c *Composer) Draft() model.CommentDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := model.CommentDraft{
		TutorialID:    c.tutorialID,
		Title:         c.form.title,
		Body:          c.form.body,
		AllowReplies:  c.form.allowReplies,
		NotifyReplies: c.form.allowReplies && c.form.notifyReplies,
	}
	if c.reply != nil {
		id := c.reply.CommentID
		d.ReplyToID = &id
	}
	return d
}

// Submit sends the current draft once. Failures become notifications and
// are reported in Result.
func (c *Composer) Submit(ctx context.Context) Result {
	draft := c.Draft()
	reply, err := c.gw.Post(ctx, siteclient.CommentCreate, draft)
	var res Result
	switch {
	case err != nil:
		logging.Error("comment_unreachable", map[string]any{"tutorial_id": draft.TutorialID, "error": err.Error()})
		c.sink.Notify(notify.Notification{Level: notify.Failure, Message: c.opts.UnreachableText})
		res = Result{Outcome: Unreachable, Draft: draft}
	case reply.OK():
		c.sink.Notify(notify.Notification{Level: notify.Success, Message: c.opts.QueuedText, AutoDismiss: c.opts.ConfirmDismiss})
		if c.opts.ResetOnSuccess {
			c.reset()
		}
		res = Result{Outcome: Queued, Draft: draft}
	default:
		msg := reply.ErrorText()
		logging.Warn("comment_refused", map[string]any{"tutorial_id": draft.TutorialID, "error": msg})
		c.sink.Notify(notify.Notification{Level: notify.Failure, Message: msg})
		res = Result{Outcome: Refused, Draft: draft, Error: msg}
	}
	metrics.IncComment(res.Outcome.String())
	c.record(ctx, res)
	return res
}

func (c *Composer) reset() {
	c.mu.Lock()
	c.form.title = ""
	c.form.body = ""
	c.mu.Unlock()
	c.SetAllowReplies(true)
	c.CancelReply()
}

func (c *Composer) record(ctx context.Context, res Result) {
	if c.opts.Journal == nil {
		return
	}
	payload := map[string]any{"outcome": res.Outcome.String(), "title": res.Draft.Title}
	if res.Draft.ReplyToID != nil {
		payload["reply_to"] = *res.Draft.ReplyToID
	}
	ref := model.EntityRef{Kind: model.Tutorial, ID: res.Draft.TutorialID}.String()
	if err := c.opts.Journal.PutEvent(ctx, c.now().UTC(), "comment", ref, payload); err != nil {
		logging.Warn("journal_write_failed", map[string]any{"error": err.Error()})
	}
}
