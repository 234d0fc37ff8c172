package graph

// NewScalarOutput constructs an unbound TS<T> output of the given
// element type label.
func NewScalarOutput(typeName string) *Output {
	return &Output{shape: NewScalarShape(typeName)}
}

// NewScalarInput constructs an unbound TS<T> input of the given element
// type label.
func NewScalarInput(typeName string) *Input {
	return &Input{shape: NewScalarShape(typeName)}
}

// scalarValueOf returns this output's current value. Per spec.md §3,
// delta for a scalar equals the last-applied value: there is nothing to
// diff against, so scalarDelta and scalarValue always agree.
func (o *Output) scalarValueOf() any { return o.scalarValue }

// ApplyScalar sets a TS<T> output's value at logical time now, marking it
// modified and scheduling every active subscriber.
func (o *Output) ApplyScalar(now Time, v any) {
	o.scalarValue = v
	o.scalarDelta = v
	o.touch(now)
}
