package store

import (
	"context"
	"errors"

	"github.com/communitysubs/subcue/internal/cue"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("cue not found")

// Store is the persistence collaborator for cue collections: a keyed
// store with a secondary index on the owning transcript. PutBulk and
// DeleteBulk are atomic for the items in one call; nothing spans calls.
type Store interface {
	// Cue fetches one cue by id, or ErrNotFound.
	Cue(ctx context.Context, id string) (cue.Cue, error)

	// CuesByTranscript returns every cue owned by the transcript, in
	// unspecified order. A transcript with no cues yields an empty
	// slice, not an error.
	CuesByTranscript(ctx context.Context, transcriptID string) ([]cue.Cue, error)

	// Put inserts or overwrites a single cue by id.
	Put(ctx context.Context, c cue.Cue) error

	// PutBulk inserts or overwrites all given cues as one atomic write.
	PutBulk(ctx context.Context, cues []cue.Cue) error

	// DeleteBulk removes all given ids. Missing ids are not an error.
	DeleteBulk(ctx context.Context, ids []string) error
}
