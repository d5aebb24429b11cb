// Package promptscope tracks lexical scope during extraction: a LIFO
// stack of scopes recording which identifiers have been marked
// prompt-bearing and the definition-time annotations of annotated-but-
// unassigned identifiers.
package promptscope

import "github.com/sourceprompt/promptscan/internal/prompttype"

type frame struct {
	marked map[string]bool
	defs   map[string][]prompttype.PromptAnnotation
}

func newFrame() *frame {
	return &frame{
		marked: make(map[string]bool),
		defs:   make(map[string][]prompttype.PromptAnnotation),
	}
}

// Tracker is the per-file scope tracker. It is created fresh for each
// extraction and discarded when the driver finishes; it holds no
// cross-file state.
type Tracker struct {
	stack []*frame
}

// New creates a Tracker with one module-level scope already entered, so
// top-level declarations have somewhere to register.
func New() *Tracker {
	t := &Tracker{}
	t.EnterScope()
	return t
}

// EnterScope pushes a new lexical scope.
func (t *Tracker) EnterScope() {
	t.stack = append(t.stack, newFrame())
}

// ExitScope pops the innermost lexical scope. It is a no-op if the stack
// would become empty, since the module-level scope always remains.
func (t *Tracker) ExitScope() {
	if len(t.stack) <= 1 {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// Depth returns the current scope-stack depth.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

func (t *Tracker) innermost() *frame {
	return t.stack[len(t.stack)-1]
}

// MarkPromptIdent marks name as prompt-bearing in the innermost scope.
func (t *Tracker) MarkPromptIdent(name string) {
	t.innermost().marked[name] = true
}

// IsPromptIdent reports whether any scope on the stack, searched from
// innermost outward, has marked name as prompt-bearing.
func (t *Tracker) IsPromptIdent(name string) bool {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].marked[name] {
			return true
		}
	}
	return false
}

// StoreDefAnnotation binds annotations to name at the innermost scope,
// for an identifier declared with a @prompt marker but no initializer.
func (t *Tracker) StoreDefAnnotation(name string, annotations []prompttype.PromptAnnotation) {
	t.innermost().defs[name] = annotations
}

// GetDefAnnotation searches from innermost outward and returns the first
// recorded definition-time annotation list for name, if any.
func (t *Tracker) GetDefAnnotation(name string) ([]prompttype.PromptAnnotation, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if ann, ok := t.stack[i].defs[name]; ok {
			return ann, true
		}
	}
	return nil, false
}
