package vm

// refEntry is the bookkeeping the tracker keeps per live compound: how many
// evaluation/alt stack slots reference it directly, and the multiset of
// parent compounds it has been stored into.
type refEntry struct {
	item        compoundItem
	stackRefs   int
	parentEdges map[compoundID]int
}

// ReferenceTracker implements the cycle-safe reclamation scheme of
// SPEC_FULL.md §4.5: every live compound is registered here the moment it is
// allocated, and a post-step sweep reclaims any connected component of
// compounds that has become unreachable from every stack, even when the
// component is only held together by edges pointing into itself.
type ReferenceTracker struct {
	nextID       compoundID
	tracing      map[compoundID]*refEntry
	itemCount    int
	zeroReferred map[compoundID]struct{}
}

func NewReferenceTracker() *ReferenceTracker {
	return &ReferenceTracker{
		tracing:      map[compoundID]*refEntry{},
		zeroReferred: map[compoundID]struct{}{},
	}
}

func (rt *ReferenceTracker) newID() compoundID {
	rt.nextID++
	return rt.nextID
}

// register adds a freshly allocated compound to the tracker with no
// references yet; it is invariant 1's entry point.
func (rt *ReferenceTracker) register(c compoundItem) {
	rt.tracing[c.id()] = &refEntry{item: c, parentEdges: map[compoundID]int{}}
}

// StackItemCount returns the aggregate slot count (invariant 2).
func (rt *ReferenceTracker) StackItemCount() int { return rt.itemCount }

// Live reports whether a compound is still tracked (used by tests).
func (rt *ReferenceTracker) Live(c compoundItem) bool {
	_, ok := rt.tracing[c.id()]
	return ok
}

func (rt *ReferenceTracker) entry(c compoundItem) *refEntry {
	e, ok := rt.tracing[c.id()]
	if !ok {
		// Defensive: every compound must have been registered at creation.
		e = &refEntry{item: c, parentEdges: map[compoundID]int{}}
		rt.tracing[c.id()] = e
	}
	return e
}

// AttachToStack records item entering an evaluation or alt stack slot.
func (rt *ReferenceTracker) AttachToStack(item StackItem) {
	rt.itemCount++
	if c, ok := asCompound(item); ok {
		rt.entry(c).stackRefs++
	}
}

// DetachFromStack records item leaving an evaluation or alt stack slot.
func (rt *ReferenceTracker) DetachFromStack(item StackItem) {
	rt.itemCount--
	if c, ok := asCompound(item); ok {
		e := rt.entry(c)
		e.stackRefs--
		if e.stackRefs <= 0 {
			e.stackRefs = 0
			rt.zeroReferred[c.id()] = struct{}{}
		}
	}
}

// AttachToParent records item being stored into one of parent's slots
// (an array/struct element or a map key or value).
func (rt *ReferenceTracker) AttachToParent(parent compoundItem, item StackItem) {
	rt.itemCount++
	if c, ok := asCompound(item); ok {
		rt.entry(c).parentEdges[parent.id()]++
	}
}

// DetachFromParent records item being removed/overwritten in one of
// parent's slots.
func (rt *ReferenceTracker) DetachFromParent(parent compoundItem, item StackItem) {
	rt.itemCount--
	if c, ok := asCompound(item); ok {
		e := rt.entry(c)
		e.parentEdges[parent.id()]--
		if e.parentEdges[parent.id()] <= 0 {
			delete(e.parentEdges, parent.id())
		}
		if e.stackRefs <= 0 {
			rt.zeroReferred[c.id()] = struct{}{}
		}
	}
}

// Sweep runs the cycle-safe reclamation pass described in SPEC_FULL.md §4.5.
// It is invoked once per step, after dispatch, before the next fetch.
func (rt *ReferenceTracker) Sweep() {
	if len(rt.zeroReferred) == 0 {
		return
	}
	seeds := rt.zeroReferred
	rt.zeroReferred = map[compoundID]struct{}{}

	visited := map[compoundID]bool{}
	for seed := range seeds {
		if visited[seed] {
			continue
		}
		if _, ok := rt.tracing[seed]; !ok {
			continue
		}
		component := rt.collectComponent(seed, visited)
		alive := false
		for id := range component {
			if rt.tracing[id].stackRefs > 0 {
				alive = true
				break
			}
		}
		if alive {
			continue
		}
		for id := range component {
			e := rt.tracing[id]
			rt.itemCount -= e.item.entryCount()
			delete(rt.tracing, id)
		}
	}
}

// collectComponent performs the bounded local traversal: from seed, follow
// parent-edges upward (compounds that contain seed) and structural
// containment downward (compounds seed itself currently holds), marking
// everything reachable either way. The traversal is bounded by the subgraph
// connected to compounds that just lost their last stack reference, which is
// what keeps the sweep's cost proportional to the zero_referred frontier
// rather than to the whole heap.
func (rt *ReferenceTracker) collectComponent(seed compoundID, visited map[compoundID]bool) map[compoundID]bool {
	component := map[compoundID]bool{}
	queue := []compoundID{seed}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		component[id] = true
		e, ok := rt.tracing[id]
		if !ok {
			continue
		}
		for parentID := range e.parentEdges {
			if !visited[parentID] {
				queue = append(queue, parentID)
			}
		}
		for _, child := range e.item.children() {
			if cc, ok := asCompound(child); ok && !visited[cc.id()] {
				queue = append(queue, cc.id())
			}
		}
	}
	return component
}
