// Package idalloc provides the world's identifier allocators: a monotonic
// counter for ItemId/CreatureId (spec §3: "globally unique and monotonically
// allocated"; §9 Design Notes: "ItemId allocation uses a process-wide
// monotonic counter with abstract lifecycle init at boot / teardown at
// shutdown") and a small reusable slot allocator for bounded per-player pools
// like OpenContainer session ids (spec §3: "id (0-255), up to a small fixed
// pool per player").
//
// The slot allocator is adapted from the teacher's ECS generational entity
// pool (internal/core/ecs/entity.go): a free-list plus generation counters,
// which is exactly the "allocate / free / reuse without aliasing a stale
// handle" shape an OpenContainer session pool needs, even though the
// teacher used it for ECS entities and this core has no ECS.
package idalloc

// Monotonic is a simple process-wide counter for ids that are never reused
// (ItemId, CreatureId). Not safe for concurrent use — the world core is
// single-threaded per spec §5.
type Monotonic[T ~int64 | ~int32] struct {
	next T
}

// NewMonotonic creates a counter starting at start (inclusive of the first
// value returned being start).
func NewMonotonic[T ~int64 | ~int32](start T) *Monotonic[T] {
	return &Monotonic[T]{next: start}
}

// Next returns the next id and advances the counter.
func (m *Monotonic[T]) Next() T {
	v := m.next
	m.next++
	return v
}

// Peek returns the id that Next() would return without advancing.
func (m *Monotonic[T]) Peek() T {
	return m.next
}

// SlotHandle packs a small index with a generation so a stale reference
// (e.g. a client still holding an id for a container that was closed and
// whose slot was reused) can be detected and rejected.
type SlotHandle struct {
	index      uint8
	generation uint8
}

// Index returns the raw slot index (0-255), suitable for wire encoding as
// spec's OpenContainer "id (0-255)".
func (h SlotHandle) Index() uint8 { return h.index }

// SlotPool allocates and recycles a bounded set of small integer slots (0 to
// capacity-1), matching OpenContainer's "small fixed pool per player".
type SlotPool struct {
	capacity    uint8
	generations []uint8
	freeList    []uint8
	used        []bool
}

// NewSlotPool creates a pool with room for `capacity` concurrently open
// slots.
func NewSlotPool(capacity uint8) *SlotPool {
	p := &SlotPool{
		capacity:    capacity,
		generations: make([]uint8, capacity),
		used:        make([]bool, capacity),
	}
	for i := capacity; i > 0; i-- {
		p.freeList = append(p.freeList, i-1)
	}
	return p
}

// Allocate reserves a slot, or reports ok=false if the pool is exhausted.
func (p *SlotPool) Allocate() (handle SlotHandle, ok bool) {
	if len(p.freeList) == 0 {
		return SlotHandle{}, false
	}
	idx := p.freeList[len(p.freeList)-1]
	p.freeList = p.freeList[:len(p.freeList)-1]
	p.used[idx] = true
	return SlotHandle{index: idx, generation: p.generations[idx]}, true
}

// Release frees a slot and bumps its generation so old handles become
// invalid.
func (p *SlotPool) Release(h SlotHandle) {
	if int(h.index) >= len(p.used) || !p.used[h.index] {
		return
	}
	if p.generations[h.index] != h.generation {
		return // stale handle, already recycled
	}
	p.used[h.index] = false
	p.generations[h.index]++
	p.freeList = append(p.freeList, h.index)
}

// Valid reports whether h still refers to a currently-allocated slot.
func (p *SlotPool) Valid(h SlotHandle) bool {
	if int(h.index) >= len(p.used) {
		return false
	}
	return p.used[h.index] && p.generations[h.index] == h.generation
}

// InUse returns the number of currently allocated slots.
func (p *SlotPool) InUse() int {
	n := 0
	for _, u := range p.used {
		if u {
			n++
		}
	}
	return n
}
