package siteclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutorly/internal/config"
	"tutorly/internal/model"
)

// helper to create a client pointed at a test server
func newTestClient(t *testing.T, ts *httptest.Server, mutate func(*config.Config)) *HTTPClient {
	t.Helper()
	cfg := config.Default()
	cfg.Site.BaseURL = ts.URL
	cfg.HTTP.RPS = 0
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewHTTPClient(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPostSendsAjaxHeadersAndBody(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ajax/tutorial/like" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-CSRFToken") != "static-token" {
			t.Errorf("missing csrf header: %q", r.Header.Get("X-CSRFToken"))
		}
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Errorf("missing ajax marker")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		if ck, err := r.Cookie("sessionid"); err != nil || ck.Value != "sess" {
			t.Errorf("missing session cookie: %v", err)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, func(cfg *config.Config) {
		cfg.Site.CSRFToken = "static-token"
		cfg.Site.SessionCookie = "sess"
	})
	reply, err := c.Post(context.Background(), TutorialLike, map[string]int64{"tutorial_id": 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Status() != model.StatusInserted {
		t.Fatalf("status: got %d", reply.Status())
	}
	if got["tutorial_id"] != float64(9) {
		t.Fatalf("body not forwarded: %v", got)
	}
}

func TestTokenComesFromCookieJar(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRFToken") != "from-cookie" {
			t.Errorf("csrf header: %q", r.Header.Get("X-CSRFToken"))
		}
		_, _ = w.Write([]byte(`{"status": -1}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, nil)
	c.SetCookie("csrftoken", "from-cookie")
	reply, err := c.Post(context.Background(), CommentLike, map[string]int64{"comment_id": 3})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Status() != model.StatusDeleted {
		t.Fatalf("status: got %d", reply.Status())
	}
}

func TestTransportFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}, func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusForbidden
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>login</html>`))
		}, func(err error) bool { return errors.Is(err, ErrMalformedReply) }},
		{"missing status", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok": true}`))
		}, func(err error) bool { return errors.Is(err, ErrMalformedReply) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()
			c := newTestClient(t, ts, nil)
			_, err := c.Post(context.Background(), TutorialUpvote, map[string]int64{"tutorial_id": 1})
			if !errors.Is(err, ErrTransport) || !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNetworkErrorIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, ts, nil)
	ts.Close()
	_, err := c.Post(context.Background(), CommentCreate, map[string]any{})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestRestVariantPaths(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/comments/downvote" {
			t.Errorf("path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status": 1}`))
	}))
	defer ts.Close()
	c := newTestClient(t, ts, func(cfg *config.Config) { cfg.Site.Routes = "rest" })
	if _, err := c.Post(context.Background(), CommentDownvote, map[string]int64{"comment_id": 2}); err != nil {
		t.Fatal(err)
	}
}

func TestUnknownRouteVariant(t *testing.T) {
	if _, err := RoutesFor("soap"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}
