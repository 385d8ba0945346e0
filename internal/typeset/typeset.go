// Package typeset asks an external math engine to re-typeset rendered output.
package typeset

import (
	"encoding/json"
	"html/template"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultRoot is the element id the renderers place content under.
const DefaultRoot = "content"

// Typesetter is the capability the reader needs from a math engine.
type Typesetter interface {
	RequestRetypeset(root string)
}

// Func adapts a plain function to Typesetter.
type Func func(root string)

func (f Func) RequestRetypeset(root string) { f(root) }

// Nop discards every request.
type Nop struct{}

func (Nop) RequestRetypeset(string) {}

// Instruction is one MathJax hub command, e.g. ["Typeset", root].
type Instruction struct {
	Op   string
	Root string
}

// Queue collects instructions for an HTML page and emits them as a
// MathJax.Hub.Queue script. Safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	items []Instruction
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) RequestRetypeset(root string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Instruction{Op: "Typeset", Root: root})
}

// Pending returns a copy of the queued instructions.
func (q *Queue) Pending() []Instruction {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Instruction(nil), q.items...)
}

// Script renders the queued instructions as inline javascript, one
// MathJax.Hub.Queue call per instruction. Empty when nothing is queued.
func (q *Queue) Script() template.JS {
	pending := q.Pending()
	if len(pending) == 0 {
		return ""
	}
	var b strings.Builder
	for _, in := range pending {
		op, _ := json.Marshal(in.Op)
		b.WriteString("MathJax.Hub.Queue([")
		b.Write(op)
		b.WriteString(",MathJax.Hub")
		if in.Root != "" {
			root, _ := json.Marshal(in.Root)
			b.WriteString(",")
			b.Write(root)
		}
		b.WriteString("]);")
	}
	return template.JS(b.String())
}

// Recorder remembers every requested root.
type Recorder struct {
	mu    sync.Mutex
	roots []string
}

func (r *Recorder) RequestRetypeset(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots = append(r.roots, root)
}

// Roots returns the recorded roots in request order.
func (r *Recorder) Roots() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.roots...)
}

// Logged records requests at debug level for front-ends without an engine.
type Logged struct {
	Logger *zap.Logger
}

func (l Logged) RequestRetypeset(root string) {
	if l.Logger == nil {
		return
	}
	l.Logger.Debug("retypeset requested", zap.String("root", root))
}
