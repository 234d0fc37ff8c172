package graph

// SetDelta is the since-last-tick view of a TSS<T>: added ∩ removed = ∅
// (spec.md §8 universal property).
type SetDelta struct {
	Added   []any
	Removed []any
}

// NewSetOutput constructs an unbound, empty TSS<T> output over the named
// element type.
func NewSetOutput(elemTypeName string) *Output {
	return &Output{shape: NewSetShape(elemTypeName), setMembers: map[any]bool{}}
}

// NewSetInput constructs an unbound TSS<T> input over the named element
// type.
func NewSetInput(elemTypeName string) *Input {
	return &Input{shape: NewSetShape(elemTypeName)}
}

func (o *Output) setSnapshot() map[any]bool {
	out := make(map[any]bool, len(o.setMembers))
	for k, v := range o.setMembers {
		out[k] = v
	}
	return out
}

func (o *Output) setDelta() SetDelta {
	d := SetDelta{}
	for k := range o.setAdded {
		d.Added = append(d.Added, k)
	}
	for k := range o.setRemoved {
		d.Removed = append(d.Removed, k)
	}
	return d
}

// Contains reports whether item is a current member of a TSS output.
func (o *Output) Contains(item any) bool { return o.setMembers[item] }

// ApplySetDelta applies an incremental add/remove to a TSS output at
// logical time now. Adding an already-present member or removing an
// absent one is a no-op for that member (keeps added ∩ removed = ∅).
func (o *Output) ApplySetDelta(now Time, added, removed []any) {
	if o.setMembers == nil {
		o.setMembers = map[any]bool{}
	}
	var touched bool
	for _, a := range added {
		if o.setMembers[a] {
			continue
		}
		o.setMembers[a] = true
		if o.setRemoved[a] {
			delete(o.setRemoved, a)
		} else {
			if o.setAdded == nil {
				o.setAdded = map[any]bool{}
			}
			o.setAdded[a] = true
		}
		touched = true
	}
	for _, r := range removed {
		if !o.setMembers[r] {
			continue
		}
		delete(o.setMembers, r)
		if o.setAdded[r] {
			delete(o.setAdded, r)
		} else {
			if o.setRemoved == nil {
				o.setRemoved = map[any]bool{}
			}
			o.setRemoved[r] = true
		}
		touched = true
	}
	if touched {
		o.touch(now)
		o.graph.addAfterEvalCallback(o.clearSetBookkeeping)
	}
}

// ApplySetReplace replaces the entire membership of a TSS output,
// computing the add/remove delta against the previous membership.
func (o *Output) ApplySetReplace(now Time, members []any) {
	next := make(map[any]bool, len(members))
	for _, m := range members {
		next[m] = true
	}
	var added, removed []any
	for m := range next {
		if !o.setMembers[m] {
			added = append(added, m)
		}
	}
	for m := range o.setMembers {
		if !next[m] {
			removed = append(removed, m)
		}
	}
	o.ApplySetDelta(now, added, removed)
}

func (o *Output) clearSetBookkeeping() {
	o.setAdded = nil
	o.setRemoved = nil
}
