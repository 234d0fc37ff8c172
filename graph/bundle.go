package graph

// NewBundleOutput constructs an unbound TSB<schema> output with one child
// Output per declared field, each wired with a parent back-pointer so
// that a child modification propagates up to the bundle (spec.md §3
// invariant: "for every child output in a composite, parent_output is
// the composite").
func NewBundleOutput(shape *Shape, childFor func(field string) *Output) *Output {
	o := &Output{shape: shape, children: map[string]*Output{}, childOrder: append([]string(nil), shape.Fields...)}
	for _, f := range shape.Fields {
		child := childFor(f)
		child.name = f
		child.parent = o
		o.children[f] = child
	}
	return o
}

// NewBundleInput constructs an unbound TSB<schema> input with one child
// Input per declared field.
func NewBundleInput(shape *Shape, childFor func(field string) *Input) *Input {
	in := &Input{shape: shape, children: map[string]*Input{}, childOrder: append([]string(nil), shape.Fields...)}
	for _, f := range shape.Fields {
		child := childFor(f)
		child.name = f
		child.parent = in
		in.children[f] = child
	}
	return in
}

// Field returns the named child Output of a ShapeBundle.
func (o *Output) Field(name string) *Output { return o.children[name] }

// Field returns the named child Input of a ShapeBundle.
func (in *Input) Field(name string) *Input { return in.children[name] }

// ApplyBundle applies a partial update to a TSB output: only the fields
// present in values are written, each via its own typed Apply* call.
// Unlisted fields are left untouched, matching the per-field modification
// tracking required for TSB delta views.
func (o *Output) ApplyBundle(now Time, values map[string]any) {
	for field, v := range values {
		child, ok := o.children[field]
		if !ok || v == nil {
			continue
		}
		child.ApplyAny(now, v)
	}
	o.touch(now)
}

// ApplyAny dispatches to the correct typed apply method based on this
// Output's Shape, used by composite ApplyBundle/ApplyList and by push and
// pull source nodes to apply their values.
func (o *Output) ApplyAny(now Time, v any) {
	switch o.shape.Kind {
	case ShapeScalar:
		o.ApplyScalar(now, v)
	case ShapeBundle:
		if m, ok := v.(map[string]any); ok {
			o.ApplyBundle(now, m)
		}
	case ShapeList:
		if s, ok := v.([]any); ok {
			o.ApplyList(now, s)
		} else if m, ok := v.(map[int]any); ok {
			o.ApplyListSparse(now, m)
		}
	case ShapeSet:
		switch d := v.(type) {
		case SetDelta:
			o.ApplySetDelta(now, d.Added, d.Removed)
		case []any:
			o.ApplySetReplace(now, d)
		}
	case ShapeDict:
		if m, ok := v.(map[any]any); ok {
			o.ApplyDict(now, m)
		}
	case ShapeRef:
		if r, ok := v.(*RefValue); ok {
			o.ApplyRef(now, r)
		}
	}
}
