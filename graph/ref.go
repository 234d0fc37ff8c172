package graph

// RefValue is the first-class handle carried by a REF<T> edge. A peer
// reference names a single Output directly; a composite reference zips
// together one RefValue per field/index of a composite shape, letting a
// TSB/TSL of per-field references stand in for a single REF over the
// whole composite (spec.md §3, grounded on original_source's
// TimeSeriesReference peer/composite split).
type RefValue struct {
	valid  bool
	output *Output     // set for a peer reference
	items  []*RefValue // set for a composite reference, in declared order
}

// NewRefOutput constructs an unbound REF<target> output (target nil for a
// polymorphic reference that matches any referent shape).
func NewRefOutput(target *Shape) *Output {
	return &Output{shape: NewRefShape(target)}
}

// NewRefInput constructs an unbound REF<target> input.
func NewRefInput(target *Shape) *Input {
	return &Input{shape: NewRefShape(target)}
}

// NewPeerRef wraps a single Output as a peer reference.
func NewPeerRef(out *Output) *RefValue {
	return &RefValue{valid: out != nil, output: out}
}

// NewCompositeRef zips child references into one composite reference.
// The result is valid only if every item is itself valid.
func NewCompositeRef(items []*RefValue) *RefValue {
	valid := len(items) > 0
	for _, it := range items {
		if it == nil || !it.valid {
			valid = false
			break
		}
	}
	return &RefValue{valid: valid, items: items}
}

// InvalidRef is the zero-value, unbound reference.
func InvalidRef() *RefValue { return &RefValue{} }

// Valid reports whether this reference resolves to a real target.
func (r *RefValue) Valid() bool { return r != nil && r.valid }

// Output returns the target of a peer reference, or nil for a composite
// or invalid one.
func (r *RefValue) Output() *Output {
	if r == nil {
		return nil
	}
	return r.output
}

// Items returns the child references of a composite reference.
func (r *RefValue) Items() []*RefValue {
	if r == nil {
		return nil
	}
	return r.items
}

// bindInto rewires in to follow this reference at logical time now: a
// peer reference rebinds in directly to its target Output; a composite
// reference recurses into in's children. This is the mechanism behind
// "rebinding downstream observers without re-wiring the graph" (spec.md
// §3): the static edge into in never changes, only what in resolves to.
func (r *RefValue) bindInto(now Time, in *Input) error {
	if r == nil || !r.valid {
		in.Unbind(now)
		return nil
	}
	if r.output != nil {
		if in.bound == r.output {
			return nil
		}
		wasActive := in.active
		if wasActive {
			in.MakePassive()
		}
		if err := bindInput(now, in, r.output, in.transplanted); err != nil {
			return err
		}
		in.rebindTime = now
		if wasActive {
			in.MakeActive()
		}
		return nil
	}
	for i, item := range r.items {
		if i >= len(in.childOrder) {
			break
		}
		if err := item.bindInto(now, in.children[in.childOrder[i]]); err != nil {
			return err
		}
	}
	in.rebindTime = now
	return nil
}

// ApplyRef sets a REF<T> output's current reference value at logical
// time now, touching it and rebinding every Input currently
// dereferencing it (registered via ObserveReference) to the new target.
func (o *Output) ApplyRef(now Time, r *RefValue) error {
	o.refValue = r
	o.touch(now)
	for _, obs := range o.refObservers {
		if err := r.bindInto(now, obs); err != nil {
			return err
		}
	}
	return nil
}

// ObserveReference registers in as a dereference-observer of this REF
// output: in is immediately bound to wherever the reference currently
// points (if valid), and re-bound on every subsequent ApplyRef, without
// the graph's static edges ever changing.
func (o *Output) ObserveReference(now Time, in *Input) error {
	o.refObservers = append(o.refObservers, in)
	if o.refValue != nil {
		return o.refValue.bindInto(now, in)
	}
	return nil
}

// StopObserving deregisters in from this REF output's observer list.
func (o *Output) StopObserving(in *Input) {
	for i, x := range o.refObservers {
		if x == in {
			o.refObservers = append(o.refObservers[:i], o.refObservers[i+1:]...)
			return
		}
	}
}
