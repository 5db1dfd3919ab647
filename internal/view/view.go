// Package view is the page render target. Controllers own the state and
// push it here; nothing is ever read back from the page to decide behaviour.
package view

import (
	"sync"
)

// Element ids of the comment form.
const (
	ReplyBanner      = "reply-banner"
	ReplyBannerTitle = "reply-banner-title"
	TitleField       = "comment-title"
	AllowReplies     = "allow-replies"
	NotifyReplies    = "notify-replies"
)

// ReactedClass marks a liked control.
const ReactedClass = "reacted"

// Renderer updates page elements addressed by id.
type Renderer interface {
	SetText(id, text string)
	SetClass(id, class string, on bool)
	SetDisabled(id string, disabled bool)
	SetChecked(id string, checked bool)
	SetHidden(id string, hidden bool)
	Focus(id string)
}

// Element is the rendered state of one page element.
type Element struct {
	Text     string
	Classes  map[string]bool
	Disabled bool
	Checked  bool
	Hidden   bool
}

// HasClass reports whether class is set.
func (e Element) HasClass(class string) bool { return e.Classes[class] }

// Memory is an in-memory page used by the CLI and by tests.
type Memory struct {
	mu      sync.Mutex
	els     map[string]*Element
	focused string
}

func NewMemory() *Memory { return &Memory{els: make(map[string]*Element)} }

func (m *Memory) el(id string) *Element {
	e, ok := m.els[id]
	if !ok {
		e = &Element{Classes: make(map[string]bool)}
		m.els[id] = e
	}
	return e
}

func (m *Memory) SetText(id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.el(id).Text = text
}

func (m *Memory) SetClass(id, class string, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.el(id).Classes[class] = true
		return
	}
	delete(m.el(id).Classes, class)
}

func (m *Memory) SetDisabled(id string, disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.el(id).Disabled = disabled
}

func (m *Memory) SetChecked(id string, checked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.el(id).Checked = checked
}

func (m *Memory) SetHidden(id string, hidden bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.el(id).Hidden = hidden
}

func (m *Memory) Focus(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = id
}

// Element returns a copy of the element; unknown ids are zero elements.
func (m *Memory) Element(id string) Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.els[id]
	if !ok {
		return Element{Classes: map[string]bool{}}
	}
	cp := *e
	cp.Classes = make(map[string]bool, len(e.Classes))
	for k, v := range e.Classes {
		cp.Classes[k] = v
	}
	return cp
}

// Focused returns the id of the focused element.
func (m *Memory) Focused() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}
