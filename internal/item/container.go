package item

import (
	"github.com/opentibia/worldcore/internal/catalog"
	"github.com/opentibia/worldcore/internal/idalloc"
	"github.com/opentibia/worldcore/internal/ids"
)

// OpenContainer is a per-player session bound to a root item, tracking a
// parent pointer (for "go up") and mirrored contents kept in sync while the
// session is open (spec §3 "OpenContainer", §4.9, §9 "back-references
// without cyclic ownership").
type OpenContainer struct {
	Handle   idalloc.SlotHandle // wire id 0-255
	RootItem ids.ItemId
	TypeID   ids.ItemTypeId
	Capacity int

	// Parent points at the session for the container one level up, or nil
	// if this session's root sits directly in an inventory slot or on a
	// map tile.
	Parent *OpenContainer

	// Origin is where the root item itself is anchored (used to write
	// mirrored contents back on close).
	Origin ItemRoot

	Items []*ItemStack
}

// ContainerPool manages a player's bounded set of concurrently open
// container sessions.
type ContainerPool struct {
	pool     *idalloc.SlotPool
	sessions map[uint8]*OpenContainer
}

// NewContainerPool creates a pool allowing up to `capacity` simultaneously
// open sessions for one player.
func NewContainerPool(capacity uint8) *ContainerPool {
	return &ContainerPool{pool: idalloc.NewSlotPool(capacity), sessions: make(map[uint8]*OpenContainer)}
}

// Open starts a new session rooted at the given item, returning nil if the
// pool is exhausted.
func (cp *ContainerPool) Open(root *ItemStack, origin ItemRoot, cat *catalog.Index, parent *OpenContainer) *OpenContainer {
	h, ok := cp.pool.Allocate()
	if !ok {
		return nil
	}
	ot := cat.Get(int32(root.TypeID))
	session := &OpenContainer{
		Handle:   h,
		RootItem: root.ID,
		TypeID:   root.TypeID,
		Capacity: ot.AttrInt(catalog.AttrCapacity, 20),
		Parent:   parent,
		Origin:   origin,
		Items:    append([]*ItemStack(nil), root.Contents...),
	}
	cp.sessions[h.Index()] = session
	return session
}

// Get returns the session for a wire id, or nil if not open.
func (cp *ContainerPool) Get(wireID uint8) *OpenContainer {
	return cp.sessions[wireID]
}

// Close ends a session, returning its final mirrored contents for the
// caller to write back to the backing store.
func (cp *ContainerPool) Close(wireID uint8) []*ItemStack {
	session, ok := cp.sessions[wireID]
	if !ok {
		return nil
	}
	cp.pool.Release(session.Handle)
	delete(cp.sessions, wireID)
	return session.Items
}

// CloseDescendants closes every open session whose chain of Parent pointers
// reaches rootItemID, used when a container's root item is moved or removed
// (spec §3 OpenContainer: "Closed explicitly, or implicitly when the root
// item is moved/removed or goes out of range").
func (cp *ContainerPool) CloseDescendants(rootItemID ids.ItemId) {
	for wireID, session := range cp.sessions {
		if session.RootItem == rootItemID || cp.chainContainsRoot(session, rootItemID) {
			cp.pool.Release(session.Handle)
			delete(cp.sessions, wireID)
		}
	}
}

func (cp *ContainerPool) chainContainsRoot(s *OpenContainer, rootItemID ids.ItemId) bool {
	for p := s.Parent; p != nil; p = p.Parent {
		if p.RootItem == rootItemID {
			return true
		}
	}
	return false
}

// Each iterates over every currently open session.
func (cp *ContainerPool) Each(fn func(uint8, *OpenContainer)) {
	for id, s := range cp.sessions {
		fn(id, s)
	}
}

// IsOpen reports whether the item is currently the root of an open session.
func (cp *ContainerPool) IsOpen(itemID ids.ItemId) bool {
	for _, s := range cp.sessions {
		if s.RootItem == itemID {
			return true
		}
	}
	return false
}

// ErrContainerSelfInsertion is returned when a move would place a container
// inside its own descendant tree (spec §4.9, scenario 6).
var ErrContainerSelfInsertion = errItemAction("cannot move container into itself")

// ErrContainerFull is returned when a container move would exceed capacity.
var ErrContainerFull = errItemAction("container full")

// ValidateMoveIntoContainer enforces spec §4.9's structural move rules that
// are purely about the container tree shape: a container may not be moved
// into a descendant of itself, and the destination must have room.
func ValidateMoveIntoContainer(moving *ItemStack, destination *OpenContainer) error {
	if moving.ContainsID(destination.RootItem) {
		return ErrContainerSelfInsertion
	}
	if len(destination.Items) >= destination.Capacity {
		return ErrContainerFull
	}
	return nil
}
