package dsl

import "github.com/aretw0/thicket/pkg/task"

// OperatorBuilder provides a fluent API for configuring an operator.
type OperatorBuilder struct {
	op      task.OperatorDoc
	builder *Builder
}

// Cost sets the operator cost (default 1).
func (o *OperatorBuilder) Cost(c int) *OperatorBuilder {
	o.op.Cost = &c
	return o
}

// Pre adds a precondition fact.
func (o *OperatorBuilder) Pre(variable, value string) *OperatorBuilder {
	o.op.Pre[variable] = value
	return o
}

// Set adds an unconditional effect.
func (o *OperatorBuilder) Set(variable, value string) *OperatorBuilder {
	o.op.Effects = append(o.op.Effects, task.EffectDoc{Set: map[string]string{variable: value}})
	return o
}

// When adds a conditional effect, evaluated on the state the operator is applied in.
func (o *OperatorBuilder) When(cond map[string]string, variable, value string) *OperatorBuilder {
	o.op.Effects = append(o.op.Effects, task.EffectDoc{
		When: cond,
		Set:  map[string]string{variable: value},
	})
	return o
}

// Op switches to another operator of the same task.
func (o *OperatorBuilder) Op(name string) *OperatorBuilder {
	return o.builder.Op(name)
}
