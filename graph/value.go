package graph

// Value returns this Output's current snapshot, shaped per spec.md §3:
//   - Scalar: the value itself.
//   - Bundle: a map[string]any of every child's value.
//   - List: a []any of every child's value, in declared order.
//   - Set: a map[any]bool of current members.
//   - Dict: a map[any]any of valid entries.
//   - Ref: the *RefValue handle.
func (o *Output) Value() any {
	switch o.shape.Kind {
	case ShapeScalar:
		return o.scalarValueOf()
	case ShapeBundle:
		m := make(map[string]any, len(o.childOrder))
		for _, name := range o.childOrder {
			m[name] = o.children[name].Value()
		}
		return m
	case ShapeList:
		out := make([]any, len(o.childOrder))
		for i, name := range o.childOrder {
			out[i] = o.children[name].Value()
		}
		return out
	case ShapeSet:
		return o.setSnapshot()
	case ShapeDict:
		return o.dictSnapshot()
	case ShapeRef:
		return o.refValue
	default:
		return nil
	}
}

// DeltaValue returns this Output's since-last-tick view, shaped per
// spec.md §3.
func (o *Output) DeltaValue() any {
	switch o.shape.Kind {
	case ShapeScalar:
		return o.scalarDelta
	case ShapeBundle:
		m := make(map[string]any)
		for _, name := range o.childOrder {
			if o.children[name].Modified(o.lastModTime) {
				m[name] = o.children[name].DeltaValue()
			}
		}
		return m
	case ShapeList:
		m := make(map[int]any)
		for i, name := range o.childOrder {
			if o.children[name].Modified(o.lastModTime) {
				m[i] = o.children[name].DeltaValue()
			}
		}
		return m
	case ShapeSet:
		return o.setDelta()
	case ShapeDict:
		return o.dictDelta()
	case ShapeRef:
		return o.refValue
	default:
		return nil
	}
}

// Value returns this Input's current snapshot, mirroring its bound
// Output (or synthesized reference for a REF input bound to a non-REF
// output).
func (in *Input) Value() any {
	switch in.shape.Kind {
	case ShapeRef:
		if in.refSynthesized != nil {
			return in.refSynthesized
		}
		if in.bound != nil {
			return in.bound.Value()
		}
		return &RefValue{}
	case ShapeBundle, ShapeList:
		if len(in.childOrder) > 0 {
			if in.shape.Kind == ShapeBundle {
				m := make(map[string]any, len(in.childOrder))
				for _, name := range in.childOrder {
					m[name] = in.children[name].Value()
				}
				return m
			}
			out := make([]any, len(in.childOrder))
			for i, name := range in.childOrder {
				out[i] = in.children[name].Value()
			}
			return out
		}
		if in.bound != nil {
			return in.bound.Value()
		}
		return nil
	case ShapeDict:
		return in.dictValue()
	default:
		if in.bound != nil {
			return in.bound.Value()
		}
		return nil
	}
}

// DeltaValue returns this Input's since-last-tick view.
func (in *Input) DeltaValue() any {
	switch in.shape.Kind {
	case ShapeRef:
		return in.Value()
	case ShapeDict:
		return in.dictDelta()
	default:
		if in.bound != nil {
			return in.bound.DeltaValue()
		}
		return nil
	}
}
