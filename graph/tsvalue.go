package graph

// Output is the producer end of a time-series edge. A single Output tree
// represents a node's entire declared output (scalar, bundle, list, set,
// dict or ref); composite shapes keep their children as nested *Output
// values under Children, keyed exactly as their Shape describes.
//
// Output is intentionally one concrete type for every shape rather than
// six generic types: the runtime is dynamically typed (values travel as
// `any`), and Shape is the single source of truth for what a given
// Output actually holds. See the "dynamic typing" design note.
type Output struct {
	shape *Shape
	owner *Node
	graph *Graph

	// name is this output's key within its parent composite ("" at the
	// tree root), used only for diagnostics.
	name string
	// parent is nil at the composite root.
	parent *Output

	valid       bool
	modTime     Time // last time this output (or a descendant) changed
	lastModTime Time // equals modTime; kept for readability at call sites

	// subscribers are the active Inputs bound directly to this Output
	// (i.e. whose declared shape matches and are NOT observing it via
	// the reference-engine indirection). Modifying this Output schedules
	// every subscriber's owning node.
	subscribers []*Input

	// --- ShapeScalar ---
	scalarValue any
	scalarDelta any

	// --- ShapeBundle / ShapeList ---
	children   map[string]*Output
	childOrder []string

	// --- ShapeSet ---
	setMembers  map[any]bool
	setAdded    map[any]bool
	setRemoved  map[any]bool

	// --- ShapeDict ---
	dictChildren     map[any]*Output
	dictKeySet       *Output // peer TSS<K>, shape ShapeSet
	dictAddedKeys    map[any]bool
	dictRemovedItems map[any]*Output
	dictKeyOrder     []any // insertion order, for deterministic Value()/DeltaValue() iteration
	dictKeyObservers []keyObserver
	valueFactory     func() *Output // builds a fresh per-key child output

	// --- ShapeRef ---
	refValue     *RefValue
	refObservers []*Input
}

// keyObserver is the TSD key-observer protocol (spec.md §4.4): notified
// when a key is added or removed from a dict output it is bound to.
type keyObserver interface {
	onKeyAdded(now Time, key any)
	onKeyRemoved(now Time, key any)
}

// Input is the consumer end of a time-series edge. Like Output, it is one
// concrete type tagged by Shape; composite shapes keep per-field/per-index
// child Inputs under Children.
type Input struct {
	shape *Shape
	owner *Node
	graph *Graph

	name   string
	parent *Input

	active bool
	bound  *Output // the Output this Input mirrors; nil if unbound

	// children mirror a bundle/list input's per-field/per-index children.
	children   map[string]*Input
	childOrder []string

	// --- ShapeDict ---
	dictKeySet    *Input // bound to the producing output's key-set
	dictChildren  map[any]*Input
	dictKeyOrder  []any
	transplanted  bool // true for a dict-child Input whose parent_input is not this dict
	inputValueFactory func() *Input // builds a fresh per-key child input

	// --- ShapeRef ---
	refSynthesized *RefValue // set when bound directly to a non-REF output
	refSampleTime  Time      // drives Modified() when refSynthesized is set

	// rebindTime records the last time this Input was re-pointed at a new
	// Output via the reference engine (as opposed to its initial static
	// bind at graph-build time). Non-ref Inputs use this to answer
	// Modified() for the instant of the rewiring itself.
	rebindTime Time
}

// Valid reports whether this Output has ever received a value.
func (o *Output) Valid() bool { return o.valid }

// Modified reports whether this Output changed at logical time now.
func (o *Output) Modified(now Time) bool { return o.valid && o.modTime.Equal(now) }

// LastModifiedTime returns the last time this Output changed.
func (o *Output) LastModifiedTime() Time { return o.lastModTime }

// Shape returns this Output's structural descriptor.
func (o *Output) Shape() *Shape { return o.shape }

// touch marks the output valid and modified at now, propagating the same
// mark to every ancestor composite, and schedules every active
// subscriber's owning node at now.
func (o *Output) touch(now Time) {
	o.valid = true
	o.modTime = now
	o.lastModTime = now
	if o.parent != nil {
		o.parent.touch(now)
	}
	for _, sub := range o.subscribers {
		if sub.active {
			sub.owner.scheduleForInputChange(now)
		}
	}
}

// Valid reports whether this Input currently resolves to a value, either
// through its bound Output or (for REF shape) a synthesized reference.
func (in *Input) Valid() bool {
	switch in.shape.Kind {
	case ShapeRef:
		if in.refSynthesized != nil {
			return in.refSynthesized.valid
		}
		if in.bound != nil {
			return in.bound.Valid()
		}
		return false
	case ShapeBundle:
		for _, name := range in.childOrder {
			if !in.children[name].Valid() {
				return false
			}
		}
		return len(in.childOrder) > 0 || (in.bound != nil && in.bound.Valid())
	case ShapeList:
		for _, name := range in.childOrder {
			if !in.children[name].Valid() {
				return false
			}
		}
		return len(in.childOrder) > 0 || (in.bound != nil && in.bound.Valid())
	default:
		return in.bound != nil && in.bound.Valid()
	}
}

// Modified reports whether this Input's bound Output (or synthesized
// reference, or own rebinding) changed at logical time now.
func (in *Input) Modified(now Time) bool {
	if in.rebindTime.Equal(now) && !in.rebindTime.Equal(MinDT) {
		return true
	}
	switch in.shape.Kind {
	case ShapeRef:
		if in.refSynthesized != nil {
			return in.refSampleTime.Equal(now) && !in.refSampleTime.Equal(MinDT)
		}
		if in.bound != nil {
			return in.bound.Modified(now)
		}
		return false
	case ShapeBundle, ShapeList:
		for _, name := range in.childOrder {
			if in.children[name].Modified(now) {
				return true
			}
		}
		if in.bound != nil {
			return in.bound.Modified(now)
		}
		return false
	case ShapeDict:
		if in.dictKeySet != nil && in.dictKeySet.Modified(now) {
			return true
		}
		for _, k := range in.dictKeyOrder {
			if c, ok := in.dictChildren[k]; ok && c.Modified(now) {
				return true
			}
		}
		return false
	default:
		return in.bound != nil && in.bound.Modified(now)
	}
}

// LastModifiedTime returns the last time this Input observed a change.
func (in *Input) LastModifiedTime() Time {
	best := MinDT
	if in.bound != nil {
		best = in.bound.LastModifiedTime()
	}
	if in.rebindTime.After(best) {
		best = in.rebindTime
	}
	if in.refSampleTime.After(best) {
		best = in.refSampleTime
	}
	for _, name := range in.childOrder {
		if t := in.children[name].LastModifiedTime(); t.After(best) {
			best = t
		}
	}
	return best
}

// Active reports whether this Input has registered interest on its bound
// Output's subscriber list.
func (in *Input) Active() bool { return in.active }

// Shape returns this Input's structural descriptor.
func (in *Input) Shape() *Shape { return in.shape }

// Owner returns the node this Input belongs to.
func (in *Input) Owner() *Node { return in.owner }

// Owner returns the node this Output belongs to.
func (o *Output) Owner() *Node { return o.owner }

func (in *Input) ownerID() NodeID {
	if in.owner != nil {
		return in.owner.ID
	}
	return nil
}

func (o *Output) removeSubscriber(in *Input) {
	for i, x := range o.subscribers {
		if x == in {
			o.subscribers = append(o.subscribers[:i], o.subscribers[i+1:]...)
			return
		}
	}
}
