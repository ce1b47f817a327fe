package mylang

import "sort"

// An interface for a scope for variable lookups.
type Env interface {
	LookupVariable(name string) int64
}

// BindingEnv is the variable store of one run. Unbound names read as 0.
type BindingEnv struct {
	bindings_ map[string]int64
}

func NewBindingEnv() *BindingEnv {
	ret := BindingEnv{}
	ret.bindings_ = map[string]int64{}
	return &ret
}

func (this *BindingEnv) LookupVariable(name string) int64 {
	return this.bindings_[name]
}

// / Like LookupVariable, but also reports whether the name was ever bound.
func (this *BindingEnv) Lookup(name string) (int64, bool) {
	value, ok := this.bindings_[name]
	return value, ok
}

func (this *BindingEnv) AddBinding(name string, value int64) {
	this.bindings_[name] = value
}

// / Bound names in lexical order.
func (this *BindingEnv) Names() []string {
	names := make([]string, 0, len(this.bindings_))
	for name := range this.bindings_ {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (this *BindingEnv) Len() int {
	return len(this.bindings_)
}
