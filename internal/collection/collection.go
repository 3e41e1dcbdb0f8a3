// Package collection maintains the authoritative, order-preserving set
// of cues for one transcript on top of an asynchronous store.
//
// Mutations are optimistic: memory changes first, then the store write
// runs. A failed write does not get retried or merged; the collection
// reloads authoritative state from the store and discards its local
// view, so storage is always the tiebreaker.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/communitysubs/subcue/internal/cue"
	"github.com/communitysubs/subcue/internal/event"
	"github.com/communitysubs/subcue/internal/logging"
	"github.com/communitysubs/subcue/internal/store"
)

// State tracks where the collection sits in the
// clean -> mutated -> (confirmed | reloading) persistence cycle.
type State int

const (
	StateClean State = iota
	StateMutated
	StateReloading
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateMutated:
		return "mutated"
	case StateReloading:
		return "reloading"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ChangeKind classifies a published mutation.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeUpdated
	ChangeDeleted
	ChangeReloaded
)

// Change is delivered to subscribers after every committed in-memory
// mutation. Cues carries the affected cues (for deletes, their last
// known values; for reloads, the full fresh list).
type Change struct {
	Kind ChangeKind
	Cues []cue.Cue
}

// Collection owns the in-memory cue list for one transcript. The list
// is kept sorted by the canonical comparator (start time, then id) and
// mirrored by an id-to-position index at all times.
type Collection struct {
	mu           sync.RWMutex
	store        store.Store
	transcriptID string
	log          *logging.Logger

	cues    []cue.Cue
	index   map[string]int
	state   State
	changes event.Emitter[Change]
}

func New(st store.Store, transcriptID string, log *logging.Logger) *Collection {
	if log == nil {
		log = logging.Nop()
	}
	return &Collection{
		store:        st,
		transcriptID: transcriptID,
		log:          log,
		index:        make(map[string]int),
	}
}

func (c *Collection) TranscriptID() string {
	return c.transcriptID
}

// Subscribe registers a change listener and returns its unsubscribe
// handle. Delivery is synchronous with the mutation.
func (c *Collection) Subscribe(fn func(Change)) func() {
	return c.changes.Subscribe(fn)
}

// Load replaces the in-memory list with the store's view of the
// transcript. This is the single canonical path that establishes
// sorted order.
func (c *Collection) Load(ctx context.Context) error {
	cues, err := c.store.CuesByTranscript(ctx, c.transcriptID)
	if err != nil {
		return fmt.Errorf("failed to load cues: %w", err)
	}
	sort.Slice(cues, func(i, j int) bool { return cue.Less(cues[i], cues[j]) })

	c.mu.Lock()
	c.cues = cues
	c.rebuildIndex()
	c.state = StateClean
	c.mu.Unlock()

	c.changes.Publish(Change{Kind: ChangeReloaded, Cues: c.Cues()})
	return nil
}

// Create materializes the draft, inserts it at its sorted position and
// persists it. On a store failure the collection reloads and the error
// surfaces to the caller.
func (c *Collection) Create(ctx context.Context, d cue.Draft) (cue.Cue, error) {
	if err := d.Validate(); err != nil {
		return cue.Cue{}, err
	}
	if d.TranscriptID != c.transcriptID {
		return cue.Cue{}, fmt.Errorf(
			"draft belongs to transcript %s, collection owns %s",
			d.TranscriptID, c.transcriptID,
		)
	}
	created := d.Materialize()

	c.mu.Lock()
	c.insert(created)
	c.state = StateMutated
	c.mu.Unlock()
	c.changes.Publish(Change{Kind: ChangeCreated, Cues: []cue.Cue{created}})

	if err := c.store.Put(ctx, created); err != nil {
		return created, c.reconcile(ctx, err)
	}
	c.setClean()
	return created, nil
}

// Update applies one or more patches as a single atomic in-memory
// transition. Every patch id must resolve before anything is touched.
// A time-field edit may move a cue, so updated cues are removed and
// re-inserted at their new sorted positions.
func (c *Collection) Update(ctx context.Context, patches ...cue.Patch) ([]cue.Cue, error) {
	if len(patches) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	updated := make([]cue.Cue, 0, len(patches))
	seen := make(map[string]bool, len(patches))
	for _, p := range patches {
		pos, ok := c.index[p.ID]
		if !ok {
			c.mu.Unlock()
			return nil, fmt.Errorf("cue %s: %w", p.ID, store.ErrNotFound)
		}
		if seen[p.ID] {
			c.mu.Unlock()
			return nil, fmt.Errorf("cue %s patched twice in one batch", p.ID)
		}
		seen[p.ID] = true
		updated = append(updated, p.Apply(c.cues[pos]))
	}
	for _, u := range updated {
		c.removeAt(c.index[u.ID])
	}
	for _, u := range updated {
		c.insert(u)
	}
	c.state = StateMutated
	c.mu.Unlock()
	c.changes.Publish(Change{Kind: ChangeUpdated, Cues: updated})

	var err error
	if len(updated) == 1 {
		err = c.store.Put(ctx, updated[0])
	} else {
		err = c.store.PutBulk(ctx, updated)
	}
	if err != nil {
		return updated, c.reconcile(ctx, err)
	}
	c.setClean()
	return updated, nil
}

// Delete removes the given cues in one pass and issues a bulk delete.
func (c *Collection) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	c.mu.Lock()
	for _, id := range ids {
		if _, ok := c.index[id]; !ok {
			c.mu.Unlock()
			return fmt.Errorf("cue %s: %w", id, store.ErrNotFound)
		}
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	removed := make([]cue.Cue, 0, len(ids))
	kept := c.cues[:0]
	for _, existing := range c.cues {
		if doomed[existing.ID] {
			removed = append(removed, existing)
		} else {
			kept = append(kept, existing)
		}
	}
	c.cues = kept
	c.rebuildIndex()
	c.state = StateMutated
	c.mu.Unlock()
	c.changes.Publish(Change{Kind: ChangeDeleted, Cues: removed})

	if err := c.store.DeleteBulk(ctx, ids); err != nil {
		return c.reconcile(ctx, err)
	}
	c.setClean()
	return nil
}

// BulkCreate is the import path. The cues go to storage first and the
// collection then reloads through Load, so a large fresh set is
// authoritative and sorted by the one canonical path.
func (c *Collection) BulkCreate(ctx context.Context, cues []cue.Cue) error {
	if err := c.store.PutBulk(ctx, cues); err != nil {
		return fmt.Errorf("failed to persist imported cues: %w", err)
	}
	return c.Load(ctx)
}

// Cues returns a copy of the ordered list.
func (c *Collection) Cues() []cue.Cue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]cue.Cue, len(c.cues))
	copy(out, c.cues)
	return out
}

// Get looks a cue up by id.
func (c *Collection) Get(id string) (cue.Cue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.index[id]
	if !ok {
		return cue.Cue{}, false
	}
	return c.cues[pos], true
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cues)
}

func (c *Collection) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// reconcile handles a failed store write: reload authoritative state,
// discard the optimistic view, and surface the original failure. A
// reload failure is joined onto it rather than swallowed.
func (c *Collection) reconcile(ctx context.Context, cause error) error {
	c.mu.Lock()
	c.state = StateReloading
	c.mu.Unlock()

	c.log.Warnw("persist failed, reloading authoritative state",
		"transcript_id", c.transcriptID,
		"error", cause,
	)

	if err := c.Load(ctx); err != nil {
		c.log.Errorw("reload after failed persist also failed",
			"transcript_id", c.transcriptID,
			"error", err,
		)
		return errors.Join(fmt.Errorf("persist failed: %w", cause), err)
	}
	return fmt.Errorf("persist failed: %w", cause)
}

func (c *Collection) setClean() {
	c.mu.Lock()
	if c.state == StateMutated {
		c.state = StateClean
	}
	c.mu.Unlock()
}

// insert places the cue at its sorted position. Caller holds the lock.
func (c *Collection) insert(newCue cue.Cue) {
	pos := sort.Search(len(c.cues), func(i int) bool {
		return cue.Less(newCue, c.cues[i])
	})
	c.cues = append(c.cues, cue.Cue{})
	copy(c.cues[pos+1:], c.cues[pos:])
	c.cues[pos] = newCue
	for i := pos; i < len(c.cues); i++ {
		c.index[c.cues[i].ID] = i
	}
}

// removeAt drops the cue at pos. Caller holds the lock.
func (c *Collection) removeAt(pos int) {
	delete(c.index, c.cues[pos].ID)
	c.cues = append(c.cues[:pos], c.cues[pos+1:]...)
	for i := pos; i < len(c.cues); i++ {
		c.index[c.cues[i].ID] = i
	}
}

// rebuildIndex recomputes the whole id-to-position map. Caller holds
// the lock.
func (c *Collection) rebuildIndex() {
	c.index = make(map[string]int, len(c.cues))
	for i, existing := range c.cues {
		c.index[existing.ID] = i
	}
}
