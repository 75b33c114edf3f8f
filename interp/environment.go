// interp/environment.go
package interp

import "sort"

// Env is one frame of the scope chain.
//
// Set always writes the frame it is called on, never an ancestor, so a name
// assigned in a callee shadows rather than rebinds the caller's binding.
// Because of that rule a caller's frames are never written while a callee
// frame sits on top of them, and restoring the caller's Env pointer after
// the call yields exactly the pre-call state without copying the chain.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv(parent *Env) *Env { return &Env{vars: map[string]Value{}, parent: parent} }

// Get walks outward from e and returns the first binding of name.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in this frame only.
func (e *Env) Set(name string, v Value) { e.vars[name] = v }

func (e *Env) Parent() *Env { return e.parent }

// Names lists the bindings of this frame in sorted order.
func (e *Env) Names() []string {
	out := make([]string, 0, len(e.vars))
	for k := range e.vars {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Depth counts the frames from e to the root, inclusive.
func (e *Env) Depth() int {
	n := 0
	for f := e; f != nil; f = f.parent {
		n++
	}
	return n
}
