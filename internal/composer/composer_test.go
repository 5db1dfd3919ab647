package composer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tutorly/internal/model"
	"tutorly/internal/notify"
	"tutorly/internal/siteclient"
	"tutorly/internal/store/journal"
	"tutorly/internal/view"
)

// fakeGateway captures the JSON body of every post.
type fakeGateway struct {
	reply  string
	err    error
	bodies []map[string]any
	ends   []siteclient.Endpoint
}

func (f *fakeGateway) Post(ctx context.Context, endpoint siteclient.Endpoint, body any) (siteclient.Reply, error) {
	b, _ := json.Marshal(body)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	f.bodies = append(f.bodies, m)
	f.ends = append(f.ends, endpoint)
	if f.err != nil {
		return siteclient.Reply{}, f.err
	}
	return siteclient.ParseReply([]byte(f.reply))
}

func newComposer(gw siteclient.Gateway, opts Options) (*Composer, *notify.Recorder, *view.Memory) {
	sink := &notify.Recorder{}
	page := view.NewMemory()
	opts.QueuedText = "queued for moderation"
	opts.UnreachableText = "unreachable"
	if opts.ConfirmDismiss == 0 {
		opts.ConfirmDismiss = 3 * time.Second
	}
	return New(21, gw, sink, page, opts), sink, page
}

func TestBeginThenCancelReply(t *testing.T) {
	c, _, page := newComposer(&fakeGateway{}, Options{})
	c.BeginReply(5, "Foo")
	if page.Element(view.ReplyBanner).Hidden || page.Element(view.ReplyBannerTitle).Text != "Foo" {
		t.Fatalf("banner not shown")
	}
	if page.Focused() != view.TitleField {
		t.Fatalf("focus: %q", page.Focused())
	}
	c.CancelReply()
	if _, ok := c.Reply(); ok {
		t.Fatalf("reply context should be cleared")
	}
	if !page.Element(view.ReplyBanner).Hidden {
		t.Fatalf("banner should be hidden")
	}
}

func TestSubmitCarriesReplyTarget(t *testing.T) {
	gw := &fakeGateway{reply: `{"status": 1}`}
	c, sink, _ := newComposer(gw, Options{})
	c.BeginReply(5, "Foo")
	c.SetTitle("Re: Foo")
	c.SetBody("agreed")

	res := c.Submit(context.Background())
	if res.Outcome != Queued {
		t.Fatalf("outcome: %s", res.Outcome)
	}
	body := gw.bodies[0]
	if body["parent_comment"] != float64(5) || body["tutorial"] != float64(21) || body["title"] != "Re: Foo" || body["body"] != "agreed" {
		t.Fatalf("body: %v", body)
	}
	if gw.ends[0] != siteclient.CommentCreate {
		t.Fatalf("endpoint: %s", gw.ends[0])
	}
	n, _ := sink.Last()
	if n.Level != notify.Success || n.Message != "queued for moderation" || n.AutoDismiss != 3*time.Second {
		t.Fatalf("notification: %+v", n)
	}
	// no automatic reset by default
	if r, ok := c.Reply(); !ok || r.CommentID != 5 {
		t.Fatalf("reply context should survive success")
	}
}

func TestSubmitWithoutReplyHasNullParent(t *testing.T) {
	gw := &fakeGateway{reply: `{"status": true}`}
	c, _, _ := newComposer(gw, Options{})
	c.Submit(context.Background())
	v, present := gw.bodies[0]["parent_comment"]
	if !present || v != nil {
		t.Fatalf("parent_comment should be null, got %v (present=%v)", v, present)
	}
}

func TestAllowRepliesDrivesNotify(t *testing.T) {
	gw := &fakeGateway{reply: `{"status": 1}`}
	c, _, page := newComposer(gw, Options{})

	c.SetAllowReplies(false)
	n := page.Element(view.NotifyReplies)
	if n.Checked || !n.Disabled {
		t.Fatalf("notify after disallow: %+v", n)
	}
	c.SetNotifyReplies(true)
	if page.Element(view.NotifyReplies).Checked || c.Draft().NotifyReplies {
		t.Fatalf("disabled toggle must ignore input")
	}

	c.SetAllowReplies(true)
	n = page.Element(view.NotifyReplies)
	if !n.Checked || n.Disabled {
		t.Fatalf("notify after allow: %+v", n)
	}
	c.SetNotifyReplies(false)
	d := c.Draft()
	if !d.AllowReplies || d.NotifyReplies {
		t.Fatalf("draft: %+v", d)
	}
}

func TestRefusedShowsServerErrors(t *testing.T) {
	gw := &fakeGateway{reply: `{"status": 0, "error": {"title": ["This field is required."]}}`}
	c, sink, _ := newComposer(gw, Options{})
	res := c.Submit(context.Background())
	if res.Outcome != Refused || res.Error != "title: This field is required." {
		t.Fatalf("result: %+v", res)
	}
	if n, _ := sink.Last(); n.Level != notify.Failure || n.Message != res.Error {
		t.Fatalf("notification: %+v", n)
	}
}

func TestUnreachable(t *testing.T) {
	c, sink, _ := newComposer(&fakeGateway{err: siteclient.ErrTransport}, Options{})
	res := c.Submit(context.Background())
	if res.Outcome != Unreachable {
		t.Fatalf("outcome: %s", res.Outcome)
	}
	all := sink.All()
	if len(all) != 1 || all[0].Message != "unreachable" {
		t.Fatalf("notifications: %+v", all)
	}
}

func TestResetOnSuccess(t *testing.T) {
	db, err := journal.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	gw := &fakeGateway{reply: `{"status": 1}`}
	c, _, page := newComposer(gw, Options{ResetOnSuccess: true, Journal: db})
	c.BeginReply(9, "Bar")
	c.SetTitle("t")
	c.SetAllowReplies(false)
	c.Submit(context.Background())

	if _, ok := c.Reply(); ok || !page.Element(view.ReplyBanner).Hidden {
		t.Fatalf("reply context should be cleared")
	}
	d := c.Draft()
	if d.Title != "" || !d.AllowReplies || !d.NotifyReplies {
		t.Fatalf("form not reset: %+v", d)
	}
	n, err := db.CountByRef(context.Background(), model.EntityRef{Kind: model.Tutorial, ID: 21}.String())
	if err != nil || n != 1 {
		t.Fatalf("journal: %v %d", err, n)
	}
}
