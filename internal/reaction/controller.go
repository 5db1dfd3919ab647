// Package reaction drives the like/upvote/downvote controls of tutorials
// and comments.
package reaction

import (
	"context"
	"fmt"
	"strconv"
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

// Outcome is the terminal result of one activation.
type Outcome int

const (
	Applied Outcome = iota + 1
	Rejected
	Unreachable
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// Result reports what one activation did. Target is the control state
// after the reply was handled.
type Result struct {
	Outcome Outcome
	Delta   int
	Target  model.ReactionTarget
}

// Options configures a Controller.
type Options struct {
	// Leave false to keep a rejected control disabled, as the site does.
	ReenableOnReject bool
	UnreachableText  string
	RejectedText     string
	// Optional interaction journal.
	Journal journal.Writer
}

type key struct {
	ref    model.EntityRef
	action model.Action
}

type control struct {
	target  model.ReactionTarget
	pending bool
}

// Controller owns the displayed state of every bound reaction control.
type Controller struct {
	gw   siteclient.Gateway
	sink notify.Sink
	page view.Renderer
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	controls map[key]*control
}

func New(gw siteclient.Gateway, sink notify.Sink, page view.Renderer, opts Options) *Controller {
	return &Controller{
		gw:       gw,
		sink:     sink,
		page:     page,
		opts:     opts,
		now:      time.Now,
		controls: make(map[key]*control),
	}
}

// Bind registers a control with the count and state the page was served with.
// A control that is still pending cannot be rebound.
func (c *Controller) Bind(action model.Action, target model.ReactionTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	b, ok := lookup(target.Kind, action)
	if !ok {
		return fmt.Errorf("%w: %s %s", model.ErrInvalidTarget, target.Kind, action)
	}
	k := key{target.EntityRef, action}
	c.mu.Lock()
	if ctl, ok := c.controls[k]; ok && ctl.pending {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s %s", model.ErrPending, target.EntityRef, action)
	}
	c.controls[k] = &control{target: target}
	c.mu.Unlock()
	c.render(b, target, false)
	return nil
}

// Target returns the current state of a bound control.
func (c *Controller) Target(ref model.EntityRef, action model.Action) (model.ReactionTarget, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctl, ok := c.controls[key{ref, action}]
	if !ok {
		return model.ReactionTarget{}, false
	}
	return ctl.target, true
}

// Pending reports whether a control is disabled waiting for (or locked by) a reply.
func (c *Controller) Pending(ref model.EntityRef, action model.Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctl, ok := c.controls[key{ref, action}]
	return ok && ctl.pending
}

// Activate handles one click on a control: it disables the control, sends
// exactly one request and applies the reply. Rejections and transport
// failures become notifications and are reported in Result; the returned
// error is only set when the click is ignored.
func (c *Controller) Activate(ctx context.Context, ref model.EntityRef, action model.Action) (Result, error) {
	if err := ref.Validate(); err != nil {
		return Result{}, err
	}
	b, ok := lookup(ref.Kind, action)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s %s", model.ErrInvalidTarget, ref.Kind, action)
	}

	c.mu.Lock()
	ctl, ok := c.controls[key{ref, action}]
	if !ok {
		c.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s %s", model.ErrUnbound, ref, action)
	}
	if ctl.pending {
		c.mu.Unlock()
		metrics.IncReaction(ref.Kind.String(), action.String(), "ignored")
		return Result{}, fmt.Errorf("%w: %s %s", model.ErrPending, ref, action)
	}
	ctl.pending = true
	c.mu.Unlock()
	c.page.SetDisabled(b.buttonID(ref.ID), true)

	reply, err := c.gw.Post(ctx, b.endpoint, b.body(ref.ID))
	if err != nil {
		logging.Error("reaction_unreachable", map[string]any{"ref": ref.String(), "action": action.String(), "error": err.Error()})
		c.sink.Notify(notify.Notification{Level: notify.Failure, Message: c.opts.UnreachableText})
		target := c.settle(ref, action, 0, true)
		c.page.SetDisabled(b.buttonID(ref.ID), false)
		return c.finish(ctx, action, Result{Outcome: Unreachable, Target: target}), nil
	}

	status := reply.Status()
	if status == model.StatusError {
		msg := reply.ErrorText()
		if msg == "" {
			msg = c.opts.RejectedText
		}
		logging.Warn("reaction_rejected", map[string]any{"ref": ref.String(), "action": action.String(), "error": msg})
		c.sink.Notify(notify.Notification{Level: notify.Failure, Message: msg})
		target := c.settle(ref, action, 0, c.opts.ReenableOnReject)
		if c.opts.ReenableOnReject {
			c.page.SetDisabled(b.buttonID(ref.ID), false)
		}
		return c.finish(ctx, action, Result{Outcome: Rejected, Target: target}), nil
	}

	delta := int(status)
	target := c.settle(ref, action, delta, true)
	c.render(b, target, false)
	return c.finish(ctx, action, Result{Outcome: Applied, Delta: delta, Target: target}), nil
}

// settle applies delta and optionally releases the control, returning the new state.
func (c *Controller) settle(ref model.EntityRef, action model.Action, delta int, release bool) model.ReactionTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctl := c.controls[key{ref, action}]
	if delta != 0 {
		ctl.target.Apply(action, delta)
	}
	if release {
		ctl.pending = false
	}
	return ctl.target
}

func (c *Controller) render(b binding, t model.ReactionTarget, disabled bool) {
	c.page.SetText(b.counterID(t.ID), strconv.Itoa(t.Count))
	if b.action == model.Like {
		c.page.SetClass(b.buttonID(t.ID), view.ReactedClass, t.State == model.Reacted)
	}
	c.page.SetDisabled(b.buttonID(t.ID), disabled)
}

func (c *Controller) finish(ctx context.Context, action model.Action, res Result) Result {
	metrics.IncReaction(res.Target.Kind.String(), action.String(), res.Outcome.String())
	if c.opts.Journal != nil {
		payload := map[string]any{
			"action":  action.String(),
			"outcome": res.Outcome.String(),
			"delta":   res.Delta,
			"count":   res.Target.Count,
		}
		if err := c.opts.Journal.PutEvent(ctx, c.now().UTC(), "reaction", res.Target.EntityRef.String(), payload); err != nil {
			logging.Warn("journal_write_failed", map[string]any{"error": err.Error()})
		}
	}
	return res
}
