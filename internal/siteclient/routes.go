package siteclient

import (
	"fmt"
	"sort"
)

// Endpoint names one ajax operation of the site.
type Endpoint string

const (
	CommentCreate    Endpoint = "comment_create"
	TutorialUpvote   Endpoint = "tutorial_upvote"
	TutorialDownvote Endpoint = "tutorial_downvote"
	TutorialLike     Endpoint = "tutorial_like"
	CommentUpvote    Endpoint = "comment_upvote"
	CommentDownvote  Endpoint = "comment_downvote"
	CommentLike      Endpoint = "comment_like"
)

// Two deployments of the same contract: namespaced rpc paths and verb-style rest paths.
var variants = map[string]map[Endpoint]string{
	"rpc": {
		CommentCreate:    "/ajax/tutorial_comment/create",
		TutorialUpvote:   "/ajax/tutorial/upvote",
		TutorialDownvote: "/ajax/tutorial/downvote",
		TutorialLike:     "/ajax/tutorial/like",
		CommentUpvote:    "/ajax/tutorial_comment/upvote",
		CommentDownvote:  "/ajax/tutorial_comment/downvote",
		CommentLike:      "/ajax/tutorial_comment/like",
	},
	"rest": {
		CommentCreate:    "/api/comments",
		TutorialUpvote:   "/api/tutorials/upvote",
		TutorialDownvote: "/api/tutorials/downvote",
		TutorialLike:     "/api/tutorials/like",
		CommentUpvote:    "/api/comments/upvote",
		CommentDownvote:  "/api/comments/downvote",
		CommentLike:      "/api/comments/like",
	},
}

// Routes maps endpoints to paths for one route variant.
type Routes map[Endpoint]string

// RoutesFor returns the paths of a variant ("rpc" or "rest").
func RoutesFor(variant string) (Routes, error) {
	r, ok := variants[variant]
	if !ok {
		return nil, fmt.Errorf("unknown route variant %q", variant)
	}
	out := make(Routes, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, nil
}

// Endpoints returns the endpoint names in stable order.
func (r Routes) Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(r))
	for e := range r {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
