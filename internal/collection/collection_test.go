package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/communitysubs/subcue/internal/cue"
	"github.com/communitysubs/subcue/internal/store"
)

// failStore wraps a real store and forces errors on selected calls.
type failStore struct {
	store.Store
	failPut     bool
	failPutBulk bool
	failDelete  bool
	failLoad    bool
}

var errForced = errors.New("forced store failure")

func (f *failStore) Put(ctx context.Context, c cue.Cue) error {
	if f.failPut {
		return errForced
	}
	return f.Store.Put(ctx, c)
}

func (f *failStore) PutBulk(ctx context.Context, cues []cue.Cue) error {
	if f.failPutBulk {
		return errForced
	}
	return f.Store.PutBulk(ctx, cues)
}

func (f *failStore) DeleteBulk(ctx context.Context, ids []string) error {
	if f.failDelete {
		return errForced
	}
	return f.Store.DeleteBulk(ctx, ids)
}

func (f *failStore) CuesByTranscript(ctx context.Context, transcriptID string) ([]cue.Cue, error) {
	if f.failLoad {
		return nil, errForced
	}
	return f.Store.CuesByTranscript(ctx, transcriptID)
}

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	return New(store.NewMemory(), "t1", nil)
}

// checkInvariant asserts the list is strictly ordered by the canonical
// comparator and the index matches list positions exactly.
func checkInvariant(t *testing.T, c *Collection) {
	t.Helper()
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := 1; i < len(c.cues); i++ {
		if !cue.Less(c.cues[i-1], c.cues[i]) {
			t.Fatalf("list out of order at %d: %+v, %+v", i, c.cues[i-1], c.cues[i])
		}
	}
	if len(c.index) != len(c.cues) {
		t.Fatalf("index has %d entries, list has %d", len(c.index), len(c.cues))
	}
	for id, pos := range c.index {
		if c.cues[pos].ID != id {
			t.Fatalf("index[%s]=%d but list holds %s there", id, pos, c.cues[pos].ID)
		}
	}
}

func TestCreateKeepsSortedOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	late, err := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 5000, End: 6000})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	early, err := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 1000, End: 2000})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cues := c.Cues()
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].ID != early.ID || cues[1].ID != late.ID {
		t.Errorf("order wrong: got [%d %d]", cues[0].Start, cues[1].Start)
	}
	checkInvariant(t, c)

	if c.State() != StateClean {
		t.Errorf("state = %v, want clean", c.State())
	}
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	created, err := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 0, End: 500})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Layer != 0 || created.Text != "" || created.Bold || created.Italics {
		t.Errorf("defaults not applied: %+v", created)
	}
	if created.ID == "" {
		t.Error("no id assigned")
	}

	if _, err := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 500, End: 500}); err == nil {
		t.Error("zero-length cue accepted")
	}
	if _, err := c.Create(ctx, cue.Draft{TranscriptID: "other", Start: 0, End: 500}); err == nil {
		t.Error("foreign transcript accepted")
	}
	if c.Len() != 1 {
		t.Errorf("rejected drafts leaked into the list, len=%d", c.Len())
	}
}

func TestUpdateMovesCue(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	first, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 1000, End: 2000})
	second, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 3000, End: 4000})

	// push the first cue past the second
	newStart := int64(9000)
	newEnd := int64(9500)
	updated, err := c.Update(ctx, cue.Patch{ID: first.ID, Start: &newStart, End: &newEnd})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated) != 1 || updated[0].Start != 9000 {
		t.Fatalf("unexpected update result %+v", updated)
	}

	cues := c.Cues()
	if cues[0].ID != second.ID || cues[1].ID != first.ID {
		t.Errorf("cue did not move after time edit")
	}
	checkInvariant(t, c)
}

func TestUpdateBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	a, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 1000, End: 2000, Text: "a"})
	before := c.Cues()

	text := "changed"
	_, err := c.Update(ctx,
		cue.Patch{ID: a.ID, Text: &text},
		cue.Patch{ID: "missing", Text: &text},
	)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	after := c.Cues()
	if len(after) != len(before) || after[0].Text != "a" {
		t.Error("failed batch left partial state behind")
	}
	checkInvariant(t, c)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	a, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 1000, End: 2000})
	b, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 3000, End: 4000})
	keep, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 5000, End: 6000})

	if err := c.Delete(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if _, ok := c.Get(keep.ID); !ok {
		t.Error("surviving cue lost")
	}
	checkInvariant(t, c)

	if err := c.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestBulkCreateReloadsSorted(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	err := c.BulkCreate(ctx, []cue.Cue{
		{ID: cue.NewID(), TranscriptID: "t1", Start: 9000, End: 9500, Text: "late"},
		{ID: cue.NewID(), TranscriptID: "t1", Start: 1000, End: 1500, Text: "early"},
		{ID: cue.NewID(), TranscriptID: "t1", Start: 4000, End: 4500, Text: "mid"},
	})
	if err != nil {
		t.Fatalf("BulkCreate failed: %v", err)
	}

	cues := c.Cues()
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}
	if cues[0].Text != "early" || cues[1].Text != "mid" || cues[2].Text != "late" {
		t.Errorf("reload did not sort: %v", []string{cues[0].Text, cues[1].Text, cues[2].Text})
	}
	checkInvariant(t, c)
}

func TestPersistFailureReloadsFromStore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	fs := &failStore{Store: mem}
	c := New(fs, "t1", nil)

	kept, err := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 1000, End: 2000})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fs.failPut = true
	_, err = c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 3000, End: 4000})
	if !errors.Is(err, errForced) {
		t.Fatalf("got %v, want forced failure", err)
	}

	// optimistic cue discarded, storage contents win
	cues := c.Cues()
	if len(cues) != 1 || cues[0].ID != kept.ID {
		t.Errorf("reconciliation did not restore store truth: %+v", cues)
	}
	if c.State() != StateClean {
		t.Errorf("state = %v, want clean after reload", c.State())
	}
	checkInvariant(t, c)
}

func TestPersistAndReloadFailureBothSurface(t *testing.T) {
	ctx := context.Background()
	fs := &failStore{Store: store.NewMemory(), failPut: true, failLoad: true}
	c := New(fs, "t1", nil)

	_, err := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 0, End: 100})
	if !errors.Is(err, errForced) {
		t.Fatalf("got %v, want forced failure", err)
	}
	if c.State() != StateReloading {
		t.Errorf("state = %v, want reloading when reload itself failed", c.State())
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	c := newTestCollection(t)

	var kinds []ChangeKind
	unsub := c.Subscribe(func(ch Change) { kinds = append(kinds, ch.Kind) })

	created, _ := c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 0, End: 100})
	text := "x"
	_, _ = c.Update(ctx, cue.Patch{ID: created.ID, Text: &text})
	_ = c.Delete(ctx, created.ID)
	unsub()
	_, _ = c.Create(ctx, cue.Draft{TranscriptID: "t1", Start: 0, End: 100})

	want := []ChangeKind{ChangeCreated, ChangeUpdated, ChangeDeleted}
	if len(kinds) != len(want) {
		t.Fatalf("got %d events, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLoadFromExistingStore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_ = mem.PutBulk(ctx, []cue.Cue{
		{ID: "b", TranscriptID: "t1", Start: 1000, End: 2000},
		{ID: "a", TranscriptID: "t1", Start: 1000, End: 3000},
		{ID: "x", TranscriptID: "other", Start: 0, End: 100},
	})

	c := New(mem, "t1", nil)
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cues := c.Cues()
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2 (foreign transcript excluded)", len(cues))
	}
	// ties on start resolve by id
	if cues[0].ID != "a" || cues[1].ID != "b" {
		t.Errorf("tie-break order wrong: %s, %s", cues[0].ID, cues[1].ID)
	}
	checkInvariant(t, c)
}
