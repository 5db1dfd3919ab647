package siteclient

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Reply is a parsed JSON reply from an ajax endpoint.
type Reply struct {
	raw gjson.Result
}

// ParseReply validates body and requires a status field.
func ParseReply(body []byte) (Reply, error) {
	if !gjson.ValidBytes(body) {
		return Reply{}, ErrMalformedReply
	}
	r := gjson.ParseBytes(body)
	if !r.IsObject() || !r.Get("status").Exists() {
		return Reply{}, ErrMalformedReply
	}
	return Reply{raw: r}, nil
}

// Status returns the integer status. Booleans map to 1 and 0.
func (r Reply) Status() int64 {
	s := r.raw.Get("status")
	switch s.Type {
	case gjson.True:
		return 1
	case gjson.False:
		return 0
	}
	return s.Int()
}

// OK reports a truthy status.
func (r Reply) OK() bool { return r.raw.Get("status").Bool() }

// ErrorText flattens the error field. The site sends either a string or a
// form-errors object of field -> [messages].
func (r Reply) ErrorText() string {
	e := r.raw.Get("error")
	switch {
	case !e.Exists():
		return ""
	case e.IsObject():
		var parts []string
		e.ForEach(func(k, v gjson.Result) bool {
			var msgs []string
			if v.IsArray() {
				for _, m := range v.Array() {
					msgs = append(msgs, messageOf(m))
				}
			} else {
				msgs = append(msgs, messageOf(v))
			}
			parts = append(parts, k.String()+": "+strings.Join(msgs, " "))
			return true
		})
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	case e.IsArray():
		var msgs []string
		for _, m := range e.Array() {
			msgs = append(msgs, messageOf(m))
		}
		return strings.Join(msgs, " ")
	}
	return e.String()
}

// Django's error-json form wraps each message as {"message": ..., "code": ...}.
func messageOf(v gjson.Result) string {
	if v.IsObject() {
		return v.Get("message").String()
	}
	return v.String()
}
