// Package cron schedules item-decay/transformation events as a min-heap
// keyed by (round, ItemId), with cancellation by id (spec §3 "Raid & Cron
// state", §4.8 "Cron (item decay)", §9 "Cron = priority queue keyed by
// (round, itemId)").
package cron

import (
	"container/heap"

	"github.com/opentibia/worldcore/internal/ids"
)

// Entry is one scheduled expiry.
type Entry struct {
	ItemID ids.ItemId
	Round  int64

	index int // heap.Interface bookkeeping
}

type entryHeap []*Entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].Round != h[j].Round {
		return h[i].Round < h[j].Round
	}
	return h[i].ItemID < h[j].ItemID
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *entryHeap) Push(x any) {
	e := x.(*Entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler is the round-based min-heap described in spec §9, with O(1)
// cancellation by item id via a side index (spec §3: "plus a hash-map for
// cancellation").
type Scheduler struct {
	heap   entryHeap
	byItem map[ids.ItemId]*Entry
	round  int64
}

// NewScheduler creates an empty scheduler starting at round 0.
func NewScheduler() *Scheduler {
	return &Scheduler{byItem: make(map[ids.ItemId]*Entry)}
}

// Round returns the current absolute round counter.
func (s *Scheduler) Round() int64 { return s.round }

// Schedule queues item for expiry at (current round + delaySeconds),
// replacing any existing schedule for the same item (spec §4.8:
// "cron_expire_item(item, delay) schedules an entry at (round + delay)").
func (s *Scheduler) Schedule(itemID ids.ItemId, delaySeconds int64) {
	s.Cancel(itemID)
	e := &Entry{ItemID: itemID, Round: s.round + delaySeconds}
	s.byItem[itemID] = e
	heap.Push(&s.heap, e)
}

// Cancel removes any pending schedule for itemID, if present.
func (s *Scheduler) Cancel(itemID ids.ItemId) {
	e, ok := s.byItem[itemID]
	if !ok {
		return
	}
	delete(s.byItem, itemID)
	if e.index >= 0 && e.index < len(s.heap) {
		heap.Remove(&s.heap, e.index)
	}
}

// Pending reports whether itemID currently has a scheduled expiry.
func (s *Scheduler) Pending(itemID ids.ItemId) bool {
	_, ok := s.byItem[itemID]
	return ok
}

// Advance moves the round counter forward by elapsedSeconds and returns
// every item whose schedule is now due (round <= new round), removed from
// the scheduler, oldest-due first (spec §4.8: "advance the round by one per
// elapsed second; repeatedly pop entries with round <= currentRound").
func (s *Scheduler) Advance(elapsedSeconds int64) []ids.ItemId {
	s.round += elapsedSeconds
	var due []ids.ItemId
	for s.heap.Len() > 0 && s.heap[0].Round <= s.round {
		e := heap.Pop(&s.heap).(*Entry)
		delete(s.byItem, e.ItemID)
		due = append(due, e.ItemID)
	}
	return due
}

// Len reports how many entries are currently scheduled.
func (s *Scheduler) Len() int { return s.heap.Len() }
