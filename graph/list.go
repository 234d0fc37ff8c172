package graph

import "strconv"

// NewListOutput constructs an unbound TSL<T,N> output with n identically
// shaped children, indexed "0".."n-1".
func NewListOutput(shape *Shape, childAt func(i int) *Output) *Output {
	o := &Output{shape: shape, children: map[string]*Output{}, childOrder: make([]string, shape.N)}
	for i := 0; i < shape.N; i++ {
		key := strconv.Itoa(i)
		o.childOrder[i] = key
		child := childAt(i)
		child.name = key
		child.parent = o
		o.children[key] = child
	}
	return o
}

// NewListInput constructs an unbound TSL<T,N> input with n identically
// shaped children.
func NewListInput(shape *Shape, childAt func(i int) *Input) *Input {
	in := &Input{shape: shape, children: map[string]*Input{}, childOrder: make([]string, shape.N)}
	for i := 0; i < shape.N; i++ {
		key := strconv.Itoa(i)
		in.childOrder[i] = key
		child := childAt(i)
		child.name = key
		child.parent = in
		in.children[key] = child
	}
	return in
}

// At returns the i'th child Output of a ShapeList.
func (o *Output) At(i int) *Output { return o.children[strconv.Itoa(i)] }

// At returns the i'th child Input of a ShapeList.
func (in *Input) At(i int) *Input { return in.children[strconv.Itoa(i)] }

// ApplyList replaces every element of a TSL output from a dense slice.
func (o *Output) ApplyList(now Time, values []any) {
	for i, v := range values {
		if i >= len(o.childOrder) || v == nil {
			continue
		}
		o.children[o.childOrder[i]].ApplyAny(now, v)
	}
	o.touch(now)
}

// ApplyListSparse updates only the indices present in values, leaving the
// rest of the list untouched.
func (o *Output) ApplyListSparse(now Time, values map[int]any) {
	for i, v := range values {
		if i < 0 || i >= len(o.childOrder) || v == nil {
			continue
		}
		o.children[o.childOrder[i]].ApplyAny(now, v)
	}
	o.touch(now)
}
