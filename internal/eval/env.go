package eval

// Env is a lexically scoped binding environment. Lookups walk outward
// through parents; definitions always land in the innermost scope.
type Env struct {
	parent *Env
	vars   map[string]Value
}

// NewEnv creates a scope nested inside parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]Value)}
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Lookup resolves a name, innermost scope first.
func (e *Env) Lookup(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
