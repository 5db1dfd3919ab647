// Package notify presents user-facing notifications (modals and toasts).
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"tutorly/internal/theme"
)

// Level is the severity of a notification.
type Level int

const (
	Success Level = iota
	Failure
)

func (l Level) String() string {
	if l == Failure {
		return "error"
	}
	return "success"
}

// Notification is one message shown to the user. A zero AutoDismiss keeps
// it open until the user closes it.
type Notification struct {
	Level       Level
	Message     string
	AutoDismiss time.Duration
}

// Sink presents notifications.
type Sink interface {
	Notify(n Notification)
}

// Terminal writes notifications as styled lines.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal { return &Terminal{w: w} }

func (t *Terminal) Notify(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	line := theme.Notice(n.Level == Failure, n.Message)
	if n.AutoDismiss > 0 {
		line += fmt.Sprintf(" (closes in %s)", n.AutoDismiss)
	}
	fmt.Fprintln(t.w, line)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
