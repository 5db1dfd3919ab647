package model

import (
	"fmt"
	"time"
)

// EntityKind identifies what a reaction control is attached to.
type EntityKind int

const (
	Tutorial EntityKind = iota + 1
	Comment
)

func (k EntityKind) String() string {
	switch k {
	case Tutorial:
		return "tutorial"
	case Comment:
		return "comment"
	}
	return "unknown"
}

// ParseEntityKind maps "tutorial" / "comment" to an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "tutorial":
		return Tutorial, nil
	case "comment":
		return Comment, nil
	}
	return 0, fmt.Errorf("%w: entity %q", ErrInvalidTarget, s)
}

// Action is the kind of reaction a user performs.
type Action int

const (
	Upvote Action = iota + 1
	Downvote
	Like
)

func (a Action) String() string {
	switch a {
	case Upvote:
		return "upvote"
	case Downvote:
		return "downvote"
	case Like:
		return "like"
	}
	return "unknown"
}

// ParseAction maps "upvote" / "downvote" / "like" to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "upvote":
		return Upvote, nil
	case "downvote":
		return Downvote, nil
	case "like":
		return Like, nil
	}
	return 0, fmt.Errorf("%w: action %q", ErrInvalidTarget, s)
}

// ReactionState is the two-state visual status of a control.
type ReactionState int

const (
	Neutral ReactionState = iota
	Reacted
)

func (s ReactionState) String() string {
	if s == Reacted {
		return "reacted"
	}
	return "neutral"
}

// Status values returned by the site's ajax endpoints.
const (
	StatusInserted = 1
	StatusDeleted  = -1
	StatusError    = 0
)

// EntityRef addresses a tutorial or a comment.
type EntityRef struct {
	Kind EntityKind
	ID   int64
}

func (r EntityRef) String() string { return fmt.Sprintf("%s:%d", r.Kind, r.ID) }

// Validate rejects unknown kinds and non-positive ids.
func (r EntityRef) Validate() error {
	if r.Kind != Tutorial && r.Kind != Comment {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidTarget, r.Kind)
	}
	if r.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidTarget, r.ID)
	}
	return nil
}

// ReactionTarget is the displayed state of one bound reaction control.
type ReactionTarget struct {
	EntityRef
	Count int
	State ReactionState
}

// Apply adds a signed delta to the displayed count. For likes the sign of
// the delta also decides the reacted state.
func (t *ReactionTarget) Apply(action Action, delta int) {
	t.Count += delta
	if action != Like {
		return
	}
	switch {
	case delta > 0:
		t.State = Reacted
	case delta < 0:
		t.State = Neutral
	}
}

// ReplyContext names the comment currently being replied to.
type ReplyContext struct {
	CommentID int64
	Title     string
}

// CommentDraft is the payload of one comment submission.
type CommentDraft struct {
	TutorialID    int64  `json:"tutorial"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	AllowReplies  bool   `json:"allow_reply"`
	NotifyReplies bool   `json:"notify_replies"`
	ReplyToID     *int64 `json:"parent_comment"`
}

// Event is one journaled interaction outcome.
type Event struct {
	ID        string
	Timestamp time.Time
	Type      string // reaction, comment
	Ref       string // entity ref, e.g. comment:42
	Payload   string
}
