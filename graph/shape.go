package graph

import "fmt"

// ShapeKind tags the runtime representation of a time-series value. The
// engine is dynamically typed internally (values travel as `any`); Shape
// is the tagged-union descriptor that lets binding code check structural
// compatibility without reflection over Go generics, per the "dynamic
// typing of outputs/inputs" design note.
type ShapeKind int

const (
	// ShapeScalar is TS<T>: a single typed value.
	ShapeScalar ShapeKind = iota
	// ShapeBundle is TSB<schema>: a fixed named record of children.
	ShapeBundle
	// ShapeList is TSL<T, N>: a fixed-size ordered sequence of identical children.
	ShapeList
	// ShapeSet is TSS<T>: a mutable set of scalars.
	ShapeSet
	// ShapeDict is TSD<K,V>: a dynamic key->child mapping plus a key-set peer.
	ShapeDict
	// ShapeRef is REF<T>: a handle to another stream.
	ShapeRef
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeScalar:
		return "Scalar"
	case ShapeBundle:
		return "Bundle"
	case ShapeList:
		return "List"
	case ShapeSet:
		return "Set"
	case ShapeDict:
		return "Dict"
	case ShapeRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// Shape describes the static structure of a time-series input or output.
// It is attached to every NodeBuilder-constructed input/output and is the
// sole source of truth for bind-time compatibility checks: bindInput
// compares shapes both for static edges and for reference rebinds.
type Shape struct {
	Kind ShapeKind

	// ScalarType names the Go type carried by a ShapeScalar leaf, or the
	// element type of a ShapeSet, or the key type of a ShapeDict. It is a
	// label only (e.g. "int", "string") used for diagnostics and equality
	// checks; the runtime does not enforce it via reflection.
	ScalarType string

	// Fields is the declared order of a ShapeBundle's named children.
	Fields []string
	// Children maps a ShapeBundle field name to its child shape.
	Children map[string]*Shape

	// Elem is the child shape of a ShapeList (all N children share it) or
	// the value shape of a ShapeDict.
	Elem *Shape
	// N is the fixed arity of a ShapeList.
	N int

	// RefTarget is the shape a ShapeRef points at. A nil RefTarget means
	// the reference is polymorphic (matches any referent shape) — used
	// for generic reference-routing nodes such as a switch between two
	// REF sources.
	RefTarget *Shape
}

// NewScalarShape builds a ShapeScalar descriptor for the named Go type.
func NewScalarShape(typeName string) *Shape {
	return &Shape{Kind: ShapeScalar, ScalarType: typeName}
}

// NewSetShape builds a ShapeSet descriptor over the named element type.
func NewSetShape(elemTypeName string) *Shape {
	return &Shape{Kind: ShapeSet, ScalarType: elemTypeName}
}

// NewBundleShape builds a ShapeBundle descriptor from an ordered field
// list and their child shapes. The order given is the order preserved for
// value snapshots and kwarg binding.
func NewBundleShape(fields []string, children map[string]*Shape) *Shape {
	return &Shape{Kind: ShapeBundle, Fields: append([]string(nil), fields...), Children: children}
}

// NewListShape builds a ShapeList descriptor of n identically-shaped
// children.
func NewListShape(elem *Shape, n int) *Shape {
	return &Shape{Kind: ShapeList, Elem: elem, N: n}
}

// NewDictShape builds a ShapeDict descriptor over the named key type and
// a value child shape.
func NewDictShape(keyTypeName string, valueShape *Shape) *Shape {
	return &Shape{Kind: ShapeDict, ScalarType: keyTypeName, Elem: valueShape}
}

// NewRefShape builds a ShapeRef descriptor pointing at target (nil for a
// polymorphic reference).
func NewRefShape(target *Shape) *Shape {
	return &Shape{Kind: ShapeRef, RefTarget: target}
}

// Equal reports whether two shapes are structurally identical. bindInput
// uses it for every bind, so a static edge or a reference rebind between
// mismatched shapes fails with a binding error.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case ShapeScalar:
		return s.ScalarType == o.ScalarType
	case ShapeSet:
		return s.ScalarType == o.ScalarType
	case ShapeBundle:
		if len(s.Fields) != len(o.Fields) {
			return false
		}
		for i, f := range s.Fields {
			if o.Fields[i] != f {
				return false
			}
			if !s.Children[f].Equal(o.Children[f]) {
				return false
			}
		}
		return true
	case ShapeList:
		return s.N == o.N && s.Elem.Equal(o.Elem)
	case ShapeDict:
		return s.ScalarType == o.ScalarType && s.Elem.Equal(o.Elem)
	case ShapeRef:
		if s.RefTarget == nil || o.RefTarget == nil {
			return true // polymorphic reference matches any target
		}
		return s.RefTarget.Equal(o.RefTarget)
	default:
		return false
	}
}

// String renders a shape for bind-error diagnostics.
func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case ShapeScalar:
		return "TS<" + s.ScalarType + ">"
	case ShapeSet:
		return "TSS<" + s.ScalarType + ">"
	case ShapeBundle:
		return "TSB" + "{" + fmt.Sprint(s.Fields) + "}"
	case ShapeList:
		return fmt.Sprintf("TSL<%s,%d>", s.Elem, s.N)
	case ShapeDict:
		return fmt.Sprintf("TSD<%s,%s>", s.ScalarType, s.Elem)
	case ShapeRef:
		if s.RefTarget == nil {
			return "REF<*>"
		}
		return "REF<" + s.RefTarget.String() + ">"
	default:
		return "?"
	}
}

// NodeKind distinguishes the three node flavors that drive scheduling.
type NodeKind int

const (
	// Compute is an ordinary node: runs when its scheduler fires or a
	// non-optional active input is modified.
	Compute NodeKind = iota
	// PushSource is driven by external thread enqueues (§4.5).
	PushSource
	// PullSource is driven by an internal resumable generator (§4.6).
	PullSource
	// Sink has no time-series output.
	Sink
)

func (k NodeKind) String() string {
	switch k {
	case Compute:
		return "Compute"
	case PushSource:
		return "PushSource"
	case PullSource:
		return "PullSource"
	case Sink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// NodeSignature is the immutable description of a node: its kind, the
// ordered names of its scalar (non-time-series) kwargs, its named
// time-series inputs with their shapes, its output shape, and the gating
// sets used by the evaluation contract.
type NodeSignature struct {
	Name string
	Kind NodeKind

	// ScalarArgs is the ordered list of non-time-series argument names;
	// their values are supplied to NewNode and held in Node.Scalars.
	ScalarArgs []string

	// Inputs is the ordered list of declared time-series input names.
	Inputs []string
	// InputShapes maps an input name to its shape.
	InputShapes map[string]*Shape

	// OutputShape is nil for Sink nodes.
	OutputShape *Shape

	// ActiveInputs is the set of input names made active on Start. A nil
	// set means "all" (spec.md default).
	ActiveInputs map[string]bool
	// ValidInputs is the set of input names whose validity gates eval. A
	// nil set means "all time-series inputs must be valid".
	ValidInputs map[string]bool

	// UsesScheduler marks that eval_fn may call the injected
	// NodeScheduler; it has no runtime effect beyond documentation since
	// the scheduler is created lazily on first use regardless.
	UsesScheduler bool
}

// activeSet resolves the effective active-inputs set (defaulting to all
// declared inputs).
func (s *NodeSignature) activeSet() map[string]bool {
	if s.ActiveInputs != nil {
		return s.ActiveInputs
	}
	all := make(map[string]bool, len(s.Inputs))
	for _, n := range s.Inputs {
		all[n] = true
	}
	return all
}

// validSet resolves the effective valid-inputs gating set (defaulting to
// all declared inputs).
func (s *NodeSignature) validSet() map[string]bool {
	if s.ValidInputs != nil {
		return s.ValidInputs
	}
	all := make(map[string]bool, len(s.Inputs))
	for _, n := range s.Inputs {
		all[n] = true
	}
	return all
}
