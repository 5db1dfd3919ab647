package reaction

import (
	"strconv"

	"tutorly/internal/model"
	"tutorly/internal/siteclient"
)

// binding ties one (entity kind, action) pair to its endpoint, its page
// elements and the request field carrying the entity id.
type binding struct {
	kind     model.EntityKind
	action   model.Action
	endpoint siteclient.Endpoint
	button   string
	counter  string
	idField  string
}

var bindings = []binding{
	{model.Tutorial, model.Upvote, siteclient.TutorialUpvote, "tutorial-upvote-btn", "tutorial-upvote-count", "tutorial_id"},
	{model.Tutorial, model.Downvote, siteclient.TutorialDownvote, "tutorial-downvote-btn", "tutorial-downvote-count", "tutorial_id"},
	{model.Tutorial, model.Like, siteclient.TutorialLike, "tutorial-like-btn", "tutorial-like-count", "tutorial_id"},
	{model.Comment, model.Upvote, siteclient.CommentUpvote, "comment-upvote-btn", "comment-upvote-count", "comment_id"},
	{model.Comment, model.Downvote, siteclient.CommentDownvote, "comment-downvote-btn", "comment-downvote-count", "comment_id"},
	{model.Comment, model.Like, siteclient.CommentLike, "comment-like-btn", "comment-like-count", "comment_id"},
}

func lookup(kind model.EntityKind, action model.Action) (binding, bool) {
	for _, b := range bindings {
		if b.kind == kind && b.action == action {
			return b, true
		}
	}
	return binding{}, false
}

// Tutorial controls are unique per page; comment controls carry the comment id.
func (b binding) elementID(prefix string, id int64) string {
	if b.kind == model.Tutorial {
		return prefix
	}
	return prefix + "-" + strconv.FormatInt(id, 10)
}

func (b binding) buttonID(id int64) string  { return b.elementID(b.button, id) }
func (b binding) counterID(id int64) string { return b.elementID(b.counter, id) }

func (b binding) body(id int64) map[string]int64 { return map[string]int64{b.idField: id} }

// ButtonID returns the page id of a reaction button.
func ButtonID(ref model.EntityRef, action model.Action) string {
	b, ok := lookup(ref.Kind, action)
	if !ok {
		return ""
	}
	return b.buttonID(ref.ID)
}

// CounterID returns the page id of a reaction counter.
func CounterID(ref model.EntityRef, action model.Action) string {
	b, ok := lookup(ref.Kind, action)
	if !ok {
		return ""
	}
	return b.counterID(ref.ID)
}
