package journal

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestPutAndLoadEvents(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := db.PutEvent(ctx, now, "reaction", "tutorial:1", map[string]any{"delta": 1}); err != nil {
		t.Fatal(err)
	}
	if err := db.PutEvent(ctx, now.Add(time.Minute), "comment", "tutorial:1", map[string]any{"ok": true}); err != nil {
		t.Fatal(err)
	}
	if err := db.PutEvent(ctx, now.Add(2*time.Hour), "reaction", "comment:3", nil); err != nil {
		t.Fatal(err)
	}

	all, err := db.LoadEventsRange(ctx, now, now.Add(time.Hour), "")
	if err != nil || len(all) != 2 {
		t.Fatalf("range: %v %d", err, len(all))
	}
	if all[0].Type != "reaction" || !strings.Contains(all[0].Payload, `"delta":1`) || all[0].ID == "" {
		t.Fatalf("first event: %+v", all[0])
	}
	if !all[0].Timestamp.Equal(now) {
		t.Fatalf("timestamp: %v", all[0].Timestamp)
	}

	reactions, err := db.LoadEventsRange(ctx, now, now.Add(3*time.Hour), "reaction")
	if err != nil || len(reactions) != 2 {
		t.Fatalf("typed range: %v %d", err, len(reactions))
	}

	n, err := db.CountByRef(ctx, "tutorial:1")
	if err != nil || n != 2 {
		t.Fatalf("count by ref: %v %d", err, n)
	}
}
