package graph

// bindInput statically wires in to out, matching spec.md §4 "bind" step:
// composite inputs bind recursively field-by-field/index-by-index, a REF
// input bound to a non-REF output synthesizes a peer reference rather
// than erroring, and a dict input registers itself as a key observer and
// materializes a child for every key already present. Used both at
// graph-build time (builder.go) and to materialize a TSD's per-key child
// input as new keys arrive (dict.go's onKeyAdded).
func bindInput(now Time, in *Input, out *Output, transplanted bool) error {
	if out == nil {
		return nil
	}
	if in.shape.Kind == ShapeRef && out.shape.Kind != ShapeRef {
		in.refSynthesized = NewPeerRef(out)
		in.refSampleTime = now
		in.transplanted = transplanted
		in.graph = out.graph
		return nil
	}
	if !in.shape.Equal(out.shape) {
		return newBindingError(in.ownerID(), "shape mismatch binding %s to %s", in.shape, out.shape)
	}
	in.bound = out
	in.transplanted = transplanted
	in.graph = out.graph
	switch in.shape.Kind {
	case ShapeBundle, ShapeList:
		for _, name := range in.childOrder {
			if err := bindInput(now, in.children[name], out.children[name], transplanted); err != nil {
				return err
			}
		}
	case ShapeDict:
		if in.dictKeySet != nil {
			if err := bindInput(now, in.dictKeySet, out.dictKeySet, transplanted); err != nil {
				return err
			}
		}
		out.addKeyObserver(in)
		for _, k := range out.dictKeyOrder {
			in.onKeyAdded(now, k)
		}
	}
	return nil
}

// MakeActive registers this Input (and every descendant leaf, for
// composite shapes) as an active subscriber of its bound Output, so a
// future modification schedules this Input's owning node (spec.md §4.2).
func (in *Input) MakeActive() {
	if in.active {
		return
	}
	in.active = true
	switch in.shape.Kind {
	case ShapeBundle, ShapeList:
		for _, name := range in.childOrder {
			in.children[name].MakeActive()
		}
	case ShapeDict:
		for _, c := range in.dictChildren {
			c.MakeActive()
		}
	default:
		if in.bound != nil {
			in.bound.subscribers = append(in.bound.subscribers, in)
		}
	}
}

// MakePassive deactivates this Input, the mirror of MakeActive.
func (in *Input) MakePassive() {
	if !in.active {
		return
	}
	in.active = false
	switch in.shape.Kind {
	case ShapeBundle, ShapeList:
		for _, name := range in.childOrder {
			in.children[name].MakePassive()
		}
	case ShapeDict:
		for _, c := range in.dictChildren {
			c.MakePassive()
		}
	default:
		if in.bound != nil {
			in.bound.removeSubscriber(in)
		}
	}
}

// Unbind detaches this Input from its bound Output without destroying
// it: used when a dict key is removed and when a reference it follows
// becomes invalid. For a REF input the un-bind is also sampled: at now
// once the owning node has started (which then also schedules that node,
// whether or not this input is active), at MinDT before that.
func (in *Input) Unbind(now Time) {
	if in.active {
		in.MakePassive()
	}
	in.bound = nil
	in.refSynthesized = nil
	if in.shape.Kind == ShapeRef {
		if in.owner != nil && in.owner.started {
			in.refSampleTime = now
			in.owner.scheduleForInputChange(now)
		} else {
			in.refSampleTime = MinDT
		}
	}
}
