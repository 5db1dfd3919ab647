package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type entry struct {
	Level   string         `json:"level"`
	Time    string         `json:"time"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

var levels = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

var (
	mu       sync.Mutex
	out      io.Writer = os.Stderr
	minLevel           = 1
)

// SetOutput redirects log lines; nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// SetLevel sets the minimum level by name. Unknown names keep info.
func SetLevel(name string) {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := levels[strings.ToLower(name)]; ok {
		minLevel = l
		return
	}
	minLevel = levels["info"]
}

func Log(level, msg string, fields map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := levels[level]; ok && l < minLevel {
		return
	}
	e := entry{Level: level, Time: time.Now().UTC().Format(time.RFC3339Nano), Message: msg, Fields: fields}
	b, _ := json.Marshal(e)
	fmt.Fprintln(out, string(b))
}

func Debug(msg string, fields map[string]any) { Log("debug", msg, fields) }
func Info(msg string, fields map[string]any)  { Log("info", msg, fields) }
func Warn(msg string, fields map[string]any)  { Log("warn", msg, fields) }
func Error(msg string, fields map[string]any) { Log("error", msg, fields) }
