package dsl

import (
	"fmt"

	"github.com/aretw0/thicket/pkg/task"
)

// Builder manages the task construction.
type Builder struct {
	doc       task.Document
	operators map[string]*OperatorBuilder
	order     []*OperatorBuilder
}

// New creates a new task builder.
func New(name string) *Builder {
	return &Builder{
		doc: task.Document{
			Name: name,
			Init: make(map[string]string),
			Goal: make(map[string]string),
		},
		operators: make(map[string]*OperatorBuilder),
	}
}

// Var declares a variable with its value names.
func (b *Builder) Var(name string, values ...string) *Builder {
	b.doc.Variables = append(b.doc.Variables, task.VariableDoc{Name: name, Values: values})
	return b
}

// Derived declares an axiom-computed variable reset to def before each evaluation.
func (b *Builder) Derived(name string, layer int, def string, values ...string) *Builder {
	b.doc.Variables = append(b.doc.Variables, task.VariableDoc{
		Name:    name,
		Values:  values,
		Derived: true,
		Layer:   layer,
		Default: def,
	})
	return b
}

// Init sets the initial value of a variable.
func (b *Builder) Init(variable, value string) *Builder {
	b.doc.Init[variable] = value
	return b
}

// Goal adds a goal fact.
func (b *Builder) Goal(variable, value string) *Builder {
	b.doc.Goal[variable] = value
	return b
}

// Axiom derives variable=value when every fact in when holds.
func (b *Builder) Axiom(when map[string]string, variable, value string) *Builder {
	b.doc.Axioms = append(b.doc.Axioms, task.AxiomDoc{
		When: when,
		Set:  map[string]string{variable: value},
	})
	return b
}

// Op creates a new operator in the task.
// If the operator already exists, it returns the existing builder.
// Operators keep their declaration order, which fixes their IDs.
func (b *Builder) Op(name string) *OperatorBuilder {
	if ob, ok := b.operators[name]; ok {
		return ob
	}
	ob := &OperatorBuilder{
		op: task.OperatorDoc{
			Name: name,
			Pre:  make(map[string]string),
		},
		builder: b,
	}
	b.operators[name] = ob
	b.order = append(b.order, ob)
	return ob
}

// Document returns the assembled document without compiling it.
func (b *Builder) Document() *task.Document {
	doc := b.doc
	doc.Operators = make([]task.OperatorDoc, 0, len(b.order))
	for _, ob := range b.order {
		doc.Operators = append(doc.Operators, ob.op)
	}
	return &doc
}

// Build compiles the task.
func (b *Builder) Build() (*task.Task, error) {
	t, err := task.Compile(b.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to build task %q: %w", b.doc.Name, err)
	}
	return t, nil
}

// MustBuild is like Build but panics on error. Intended for tests and fixtures.
func (b *Builder) MustBuild() *task.Task {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
