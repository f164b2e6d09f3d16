package recipe

import (
	"jrewrite/internal/visitor"
)

// Recipe is a named, configured rewrite made of ordered passes. Applying a
// recipe to its own output must change nothing.
type Recipe interface {
	Descriptor() Descriptor
	Passes() []Pass
}

// Pass is one traversal of a unit. New builds a fresh visitor for every unit so
// that passes can keep per-unit state in closures.
type Pass struct {
	Name string
	New  func() *visitor.Visitor
}

// Descriptor documents a recipe.
type Descriptor struct {
	Name        string       `json:"name" yaml:"name"`
	DisplayName string       `json:"displayName" yaml:"displayName"`
	Description string       `json:"description" yaml:"description"`
	Options     []OptionSpec `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionSpec documents one recipe option.
type OptionSpec struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Func adapts a descriptor and a list of passes into a Recipe.
type Func struct {
	Desc  Descriptor
	Steps []Pass
}

func (f *Func) Descriptor() Descriptor { return f.Desc }
func (f *Func) Passes() []Pass         { return f.Steps }

// Single returns a recipe made of one pass named after the recipe.
func Single(desc Descriptor, newVisitor func() *visitor.Visitor) Recipe {
	return &Func{Desc: desc, Steps: []Pass{{Name: desc.Name, New: newVisitor}}}
}
