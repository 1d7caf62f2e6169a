package tracker

import (
	"slices"
	"sync"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/reorder"
)

// Token identifies one optimistic change applied with ApplyLocal.
type Token uint64

// TaskFetch is the outcome of one task-list request made during a load.
type TaskFetch struct {
	Gen   uint64
	Tasks []model.DailyTask
	Err   error
}

// Cache holds the local copy of airdrops and their tasks. The store is the
// source of truth; the cache only leads it while an optimistic reorder is
// awaiting confirmation.
//
// Every response is tagged: loads with a load generation and task lists
// with a per-airdrop generation. Older responses are dropped, and ids
// removed with Remove are never brought back by a late response.
type Cache struct {
	mu sync.RWMutex

	items []model.Airdrop
	tasks map[int64][]model.DailyTask

	loadGen    uint64
	taskGen    map[int64]uint64
	appliedGen map[int64]uint64
	tombstones map[int64]struct{}

	nextToken Token
	snapshots map[Token][]model.Airdrop
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		tasks:      make(map[int64][]model.DailyTask),
		taskGen:    make(map[int64]uint64),
		appliedGen: make(map[int64]uint64),
		tombstones: make(map[int64]struct{}),
		snapshots:  make(map[Token][]model.Airdrop),
	}
}

// Items returns a copy of the cached airdrops in display order.
func (c *Cache) Items() []model.Airdrop {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Item looks up one airdrop by id.
func (c *Cache) Item(id int64) (model.Airdrop, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.items {
		if a.ID == id {
			return a, true
		}
	}
	return model.Airdrop{}, false
}

// Tasks returns a copy of an airdrop's tasks ordered for display.
func (c *Cache) Tasks(airdropID int64) []model.DailyTask {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneTasks(c.tasks[airdropID])
}

// BeginLoad starts a new load generation. Results from earlier
// generations are rejected by ReplaceAll.
func (c *Cache) BeginLoad() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadGen++
	return c.loadGen
}

// BeginTaskFetch returns the generation to tag a task-list request for
// airdropID with.
func (c *Cache) BeginTaskFetch(airdropID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taskGen[airdropID]++
	return c.taskGen[airdropID]
}

// ReplaceAll installs the result of a full load. It reports false and
// changes nothing when a newer load has started since gen was issued.
// An airdrop whose task fetch failed keeps its previously cached tasks.
// Pending optimistic snapshots are dropped because they describe state
// older than this load.
func (c *Cache) ReplaceAll(gen uint64, items []model.Airdrop, fetched map[int64]TaskFetch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.loadGen {
		return false
	}

	kept := reorder.Sort(c.withoutTombstones(items))

	tasks := make(map[int64][]model.DailyTask, len(kept))
	for _, a := range kept {
		f, ok := fetched[a.ID]
		switch {
		case ok && f.Err == nil && f.Gen >= c.appliedGen[a.ID]:
			tasks[a.ID] = ledger.SortTasks(f.Tasks)
			c.appliedGen[a.ID] = f.Gen
		case c.tasks[a.ID] != nil:
			tasks[a.ID] = c.tasks[a.ID]
		}
	}

	c.items = kept
	c.tasks = tasks
	clear(c.snapshots)
	return true
}

// ApplyTasks installs a task list fetched under gen. It reports false when
// the airdrop was removed or a newer list has already been applied.
func (c *Cache) ApplyTasks(airdropID int64, gen uint64, tasks []model.DailyTask) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, gone := c.tombstones[airdropID]; gone {
		return false
	}
	if gen < c.appliedGen[airdropID] {
		return false
	}
	c.appliedGen[airdropID] = gen
	c.tasks[airdropID] = ledger.SortTasks(tasks)
	return true
}

// Remove drops an airdrop and its tasks and tombstones the id.
func (c *Cache) Remove(airdropID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tombstones[airdropID] = struct{}{}
	c.items = c.withoutTombstones(c.items)
	delete(c.tasks, airdropID)
	delete(c.taskGen, airdropID)
	delete(c.appliedGen, airdropID)
}

// ApplyLocal replaces the airdrop list with transform's result and returns
// a token for confirming or undoing the change. If transform fails the
// cache is unchanged.
func (c *Cache) ApplyLocal(transform func([]model.Airdrop) ([]model.Airdrop, error)) (Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := transform(slices.Clone(c.items))
	if err != nil {
		return 0, err
	}

	c.nextToken++
	tok := c.nextToken
	c.snapshots[tok] = c.items
	c.items = next
	return tok, nil
}

// Confirm accepts the change made under tok.
func (c *Cache) Confirm(tok Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, tok)
}

// Rollback restores the list as it was before tok was applied. Changes
// applied after tok are discarded with it. It reports false when tok is
// no longer pending.
func (c *Cache) Rollback(tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.snapshots[tok]
	if !ok {
		return false
	}
	c.items = c.withoutTombstones(snap)
	for t := range c.snapshots {
		if t >= tok {
			delete(c.snapshots, t)
		}
	}
	return true
}

// Pending reports how many optimistic changes await confirmation.
func (c *Cache) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snapshots)
}

// withoutTombstones returns a new slice without removed airdrops.
func (c *Cache) withoutTombstones(items []model.Airdrop) []model.Airdrop {
	out := make([]model.Airdrop, 0, len(items))
	for _, a := range items {
		if _, gone := c.tombstones[a.ID]; gone {
			continue
		}
		out = append(out, a)
	}
	return out
}

func cloneTasks(tasks []model.DailyTask) []model.DailyTask {
	if tasks == nil {
		return nil
	}
	out := make([]model.DailyTask, len(tasks))
	for i, t := range tasks {
		out[i] = t
		out[i].DoneDates = slices.Clone(t.DoneDates)
	}
	return out
}
