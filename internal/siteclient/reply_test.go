package siteclient

import "testing"

func TestReplyStatusForms(t *testing.T) {
	cases := map[string]struct {
		status int64
		ok     bool
	}{
		`{"status": 1}`:     {1, true},
		`{"status": -1}`:    {-1, true},
		`{"status": 0}`:     {0, false},
		`{"status": true}`:  {1, true},
		`{"status": false}`: {0, false},
	}
	for body, want := range cases {
		r, err := ParseReply([]byte(body))
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if r.Status() != want.status || r.OK() != want.ok {
			t.Fatalf("%s: status=%d ok=%v", body, r.Status(), r.OK())
		}
	}
}

func TestReplyErrorText(t *testing.T) {
	cases := map[string]string{
		`{"status": 0, "error": "db down"}`:                                      "db down",
		`{"status": 0}`:                                                          "",
		`{"status": 0, "error": {"title": ["required"], "body": ["too short"]}}`: "body: too short; title: required",
		`{"status": 0, "error": {"title": [{"message": "required", "code": "x"}]}}`: "title: required",
	}
	for body, want := range cases {
		r, err := ParseReply([]byte(body))
		if err != nil {
			t.Fatal(err)
		}
		if got := r.ErrorText(); got != want {
			t.Fatalf("%s: got %q want %q", body, got, want)
		}
	}
}

func TestParseReplyRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `[]`, `"status"`, `{"status":`} {
		if _, err := ParseReply([]byte(body)); err != ErrMalformedReply {
			t.Fatalf("%q: expected ErrMalformedReply, got %v", body, err)
		}
	}
}
