package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/okian/bigboard/internal/config"
	"github.com/okian/bigboard/internal/domain/types"
	"github.com/okian/bigboard/pkg/logger"
	"github.com/okian/bigboard/pkg/metrics"
)

// LoadStatus describes how an override load went.
type LoadStatus string

// Load outcomes. Only StatusLoaded carries overrides; every other status
// comes with an empty mapping.
const (
	StatusLoaded      LoadStatus = "loaded"
	StatusAbsent      LoadStatus = "absent"
	StatusCorrupt     LoadStatus = "corrupt"
	StatusUnavailable LoadStatus = "unavailable"
)

// LoadResult is the outcome of reading the saved order. Overrides is never
// nil. Err is set for StatusCorrupt and StatusUnavailable.
type LoadResult struct {
	Overrides map[int]int
	Status    LoadStatus
	Err       error
}

// Entries returns the overrides as {id, rank} pairs ordered by rank, then id.
func (r LoadResult) Entries() []types.OrderEntry {
	out := make([]types.OrderEntry, 0, len(r.Overrides))
	for id, rank := range r.Overrides {
		out = append(out, types.OrderEntry{PlayerID: id, Rank: rank})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// OverrideRepository stores the board override order as one JSON array
// under a single key.
type OverrideRepository struct {
	store   Store
	key     string
	log     logger.Logger
	metrics *metrics.Manager
}

// NewOverrideRepository wraps store. The key defaults to
// config.DefaultStorageKey.
func NewOverrideRepository(store Store, opts ...Option) *OverrideRepository {
	r := &OverrideRepository{
		store:   store,
		key:     config.DefaultStorageKey,
		log:     logger.Nop(),
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the storage key the order is kept under.
func (r *OverrideRepository) Key() string { return r.key }

// Load reads the saved order. It never fails: storage errors and bad data
// degrade to an empty mapping with the reason in the result.
func (r *OverrideRepository) Load(ctx context.Context) LoadResult {
	res := r.load(ctx)
	r.metrics.RecordOverrideLoad(string(res.Status), len(res.Overrides))
	switch res.Status {
	case StatusUnavailable:
		r.metrics.RecordStorageError("load")
		r.log.Error(ctx, "override storage unavailable", logger.String("key", r.key), logger.Error(res.Err))
	case StatusCorrupt:
		r.log.Warn(ctx, "ignoring malformed saved order", logger.String("key", r.key), logger.Error(res.Err))
	case StatusLoaded:
		r.log.Debug(ctx, "loaded saved order", logger.Int("entries", len(res.Overrides)))
	}
	return res
}

func (r *OverrideRepository) load(ctx context.Context) LoadResult {
	empty := map[int]int{}

	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return LoadResult{Overrides: empty, Status: StatusUnavailable, Err: fmt.Errorf("%w: %w", ErrStorageUnavailable, err)}
	}
	if !found {
		return LoadResult{Overrides: empty, Status: StatusAbsent}
	}

	overrides, err := decodeOrder(raw)
	if err != nil {
		return LoadResult{Overrides: empty, Status: StatusCorrupt, Err: err}
	}
	return LoadResult{Overrides: overrides, Status: StatusLoaded}
}

// decodeOrder parses a saved [{id, rank}] array. A single bad entry
// invalidates the whole value.
func decodeOrder(raw []byte) (map[int]int, error) {
	var entries []*types.OrderEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	out := make(map[int]int, len(entries))
	for i, e := range entries {
		if e == nil || e.PlayerID <= 0 || e.Rank <= 0 {
			return nil, fmt.Errorf("%w: entry %d needs a positive id and rank", ErrMalformedData, i)
		}
		out[e.PlayerID] = e.Rank
	}
	return out, nil
}

// Save overwrites the saved order with entries.
func (r *OverrideRepository) Save(ctx context.Context, entries []types.OrderEntry) error {
	if entries == nil {
		entries = []types.OrderEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		r.metrics.RecordStorageError("save")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	r.log.Debug(ctx, "saved order", logger.Int("entries", len(entries)))
	return nil
}

// Clear removes the saved order so boards fall back to consensus.
func (r *OverrideRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		r.metrics.RecordStorageError("clear")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	r.log.Info(ctx, "cleared saved order", logger.String("key", r.key))
	return nil
}
