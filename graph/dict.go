package graph

// removeMarker and removeIfExistsMarker are the distinguished sentinel
// values recognized by TSD value assignment (spec.md §3, confirmed by
// original_source's REMOVE / REMOVE_IF_EXISTS constants).
type removeMarker struct{ ifExists bool }

// Remove deletes the key unconditionally; deleting an absent key is a
// KeyError (spec.md §7).
var Remove = removeMarker{ifExists: false}

// RemoveIfExists deletes the key if present; a no-op if absent.
var RemoveIfExists = removeMarker{ifExists: true}

// NewDictOutput constructs an empty, unbound TSD<K,V> output. valueFactory
// builds a fresh child Output of shape V for each new key.
func NewDictOutput(keyTypeName string, valueShape *Shape, valueFactory func() *Output) *Output {
	return &Output{
		shape:        NewDictShape(keyTypeName, valueShape),
		dictChildren: map[any]*Output{},
		dictKeySet:   NewSetOutput(keyTypeName),
		valueFactory: valueFactory,
	}
}

// NewDictInput constructs an empty, unbound TSD<K,V> input. valueFactory
// builds a fresh child Input of shape V for each key observed on bind.
func NewDictInput(keyTypeName string, valueShape *Shape, valueFactory func() *Input) *Input {
	return &Input{
		shape:             NewDictShape(keyTypeName, valueShape),
		dictChildren:      map[any]*Input{},
		dictKeySet:        NewSetInput(keyTypeName),
		inputValueFactory: valueFactory,
	}
}

// KeySet returns the TSS<K> peer output tracking this dict's membership.
func (o *Output) KeySet() *Output { return o.dictKeySet }

// KeySet returns the TSS<K> peer input tracking this dict's membership.
func (in *Input) KeySet() *Input { return in.dictKeySet }

// Get returns the child Output for key, or nil if absent.
func (o *Output) Get(key any) *Output { return o.dictChildren[key] }

// Get returns the child Input for key, or nil if absent.
func (in *Input) Get(key any) *Input { return in.dictChildren[key] }

// getOrCreate returns the existing child for key, creating (and
// registering in the key-set, added_keys and key observers) one if
// absent — spec.md §4.4 get_or_create.
func (o *Output) getOrCreate(now Time, key any) *Output {
	if c, ok := o.dictChildren[key]; ok {
		return c
	}
	child := o.valueFactory()
	child.name = "<dict-value>"
	child.parent = o
	child.owner = o.owner
	child.graph = o.graph
	o.dictChildren[key] = child
	o.dictKeyOrder = append(o.dictKeyOrder, key)
	if o.dictAddedKeys == nil {
		o.dictAddedKeys = map[any]bool{}
	}
	o.dictAddedKeys[key] = true
	o.dictKeySet.ApplySetDelta(now, []any{key}, nil)
	for _, obs := range o.dictKeyObservers {
		obs.onKeyAdded(now, key)
	}
	if o.graph != nil {
		o.graph.addAfterEvalCallback(o.clearDictBookkeeping)
	}
	return child
}

// Delete removes key from a TSD output, moving its child into
// removed_items for the remainder of this evaluation. Deleting an absent
// key is a fatal KeyError (spec.md §7).
func (o *Output) Delete(now Time, key any) error {
	child, ok := o.dictChildren[key]
	if !ok {
		return newKeyError(o.ownerID(), key)
	}
	delete(o.dictChildren, key)
	for i, k := range o.dictKeyOrder {
		if k == key {
			o.dictKeyOrder = append(o.dictKeyOrder[:i], o.dictKeyOrder[i+1:]...)
			break
		}
	}
	if o.dictRemovedItems == nil {
		o.dictRemovedItems = map[any]*Output{}
	}
	o.dictRemovedItems[key] = child
	o.dictKeySet.ApplySetDelta(now, nil, []any{key})
	for _, obs := range o.dictKeyObservers {
		obs.onKeyRemoved(now, key)
	}
	if o.graph != nil {
		o.graph.addAfterEvalCallback(o.clearDictBookkeeping)
	}
	return nil
}

// ApplyDict applies a batch of key assignments to a TSD output: Remove /
// RemoveIfExists values delete the key, everything else is written via
// get_or_create(k).value = v (spec.md §4.4).
func (o *Output) ApplyDict(now Time, values map[any]any) error {
	for k, v := range values {
		if marker, ok := v.(removeMarker); ok {
			if _, present := o.dictChildren[k]; !present {
				if marker.ifExists {
					continue
				}
				return newKeyError(o.ownerID(), k)
			}
			if err := o.Delete(now, k); err != nil {
				return err
			}
			continue
		}
		o.getOrCreate(now, k).ApplyAny(now, v)
	}
	o.touch(now)
	return nil
}

func (o *Output) addKeyObserver(obs keyObserver) { o.dictKeyObservers = append(o.dictKeyObservers, obs) }

func (o *Output) removeKeyObserver(obs keyObserver) {
	for i, x := range o.dictKeyObservers {
		if x == obs {
			o.dictKeyObservers = append(o.dictKeyObservers[:i], o.dictKeyObservers[i+1:]...)
			return
		}
	}
}

func (o *Output) clearDictBookkeeping() {
	o.dictAddedKeys = nil
	o.dictRemovedItems = nil
}

// AddedKeys returns the keys added to this TSD during the current
// evaluation; empty once the drain's after-evaluation callbacks run.
func (o *Output) AddedKeys() []any {
	out := make([]any, 0, len(o.dictAddedKeys))
	for _, k := range o.dictKeyOrder {
		if o.dictAddedKeys[k] {
			out = append(out, k)
		}
	}
	return out
}

// RemovedItems returns the (key, last-value-output) pairs removed from
// this TSD during the current evaluation.
func (o *Output) RemovedItems() map[any]*Output { return o.dictRemovedItems }

func (o *Output) dictSnapshot() map[any]any {
	out := make(map[any]any, len(o.dictChildren))
	for _, k := range o.dictKeyOrder {
		if c := o.dictChildren[k]; c.Valid() {
			out[k] = c.Value()
		}
	}
	return out
}

// dictDelta is the chain of (k, child.delta) for modified children plus
// (k, Remove) for each removed key this evaluation (spec.md §4.4).
func (o *Output) dictDelta() map[any]any {
	out := make(map[any]any)
	for _, k := range o.dictKeyOrder {
		c := o.dictChildren[k]
		if c.Modified(o.lastModTime) {
			out[k] = c.DeltaValue()
		}
	}
	for k := range o.dictRemovedItems {
		out[k] = Remove
	}
	return out
}

func (o *Output) ownerID() NodeID {
	if o.owner != nil {
		return o.owner.ID
	}
	return nil
}

// --- Input side: key-observer protocol consumer ---

// onKeyAdded materializes a child Input for key, binds it to the
// producing output's corresponding child, and activates it if this dict
// Input is itself active (spec.md §4.4).
func (in *Input) onKeyAdded(now Time, key any) {
	child := in.getOrCreateInputChild(key)
	if in.bound != nil {
		bindInput(now, child, in.bound.Get(key), false)
	}
	if !in.transplanted && in.active {
		child.MakeActive()
	}
}

// onKeyRemoved un-binds (but, per spec.md §4.4, does not destroy
// "transplanted" children whose parent_input is not this dict) the child
// Input for key.
func (in *Input) onKeyRemoved(now Time, key any) {
	child, ok := in.dictChildren[key]
	if !ok {
		return
	}
	delete(in.dictChildren, key)
	for i, k := range in.dictKeyOrder {
		if k == key {
			in.dictKeyOrder = append(in.dictKeyOrder[:i], in.dictKeyOrder[i+1:]...)
			break
		}
	}
	// Transplanted children are merely unbound, never destroyed; every
	// other child is unbound and dropped from this dict.
	child.Unbind(now)
}

func (in *Input) getOrCreateInputChild(key any) *Input {
	if c, ok := in.dictChildren[key]; ok {
		return c
	}
	child := in.inputValueFactory()
	child.name = "<dict-value>"
	child.parent = in
	child.owner = in.owner
	child.graph = in.graph
	in.dictChildren[key] = child
	in.dictKeyOrder = append(in.dictKeyOrder, key)
	return child
}

// dictValue returns the current snapshot of a TSD input: every key
// currently in the bound output's key-set.
func (in *Input) dictValue() map[any]any {
	out := make(map[any]any, len(in.dictKeyOrder))
	for _, k := range in.dictKeyOrder {
		if c, ok := in.dictChildren[k]; ok && c.Valid() {
			out[k] = c.Value()
		}
	}
	return out
}

func (in *Input) dictDelta() map[any]any {
	out := make(map[any]any)
	for _, k := range in.dictKeyOrder {
		if c, ok := in.dictChildren[k]; ok && c.Modified(in.LastModifiedTime()) {
			out[k] = c.DeltaValue()
		}
	}
	if in.bound != nil {
		for k := range in.bound.dictRemovedItems {
			out[k] = Remove
		}
	}
	return out
}

// AddedKeys returns the keys added to this TSD input's bound output
// during the current evaluation.
func (in *Input) AddedKeys() []any {
	if in.bound == nil {
		return nil
	}
	return in.bound.AddedKeys()
}

// RemovedKeys returns the keys removed from this TSD input's bound
// output during the current evaluation.
func (in *Input) RemovedKeys() []any {
	if in.bound == nil {
		return nil
	}
	out := make([]any, 0, len(in.bound.dictRemovedItems))
	for k := range in.bound.dictRemovedItems {
		out = append(out, k)
	}
	return out
}
