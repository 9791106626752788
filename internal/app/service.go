// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/okian/bigboard/internal/adapters/dataset"
	"github.com/okian/bigboard/internal/adapters/repository"
	"github.com/okian/bigboard/internal/config"
	"github.com/okian/bigboard/internal/domain/model"
	"github.com/okian/bigboard/internal/domain/ranking"
	"github.com/okian/bigboard/internal/domain/types"
	"github.com/okian/bigboard/pkg/logger"
	"github.com/okian/bigboard/pkg/metrics"
)

// Service implements the API dependencies for the big board.
type Service struct {
	mu sync.RWMutex
	// boardMu serializes every build -> reorder -> persist sequence so one
	// reorder completes before the next one reads the board.
	boardMu sync.Mutex

	// Core components
	store     repository.Store
	overrides *repository.OverrideRepository

	// Configuration
	storageKey  string
	dataPath    string
	preset      *model.DraftData
	topNDefault int
	maxTopN     int

	// State
	data     model.DraftData
	warnings []string
	dataErr  error
	started  bool

	logger  logger.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the process-wide one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithStore sets the key-value store overrides are kept in. The service
// owns it from then on and closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStorageKey sets the key the override order is saved under.
func WithStorageKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithDataPath loads the dataset from path instead of the bundled copy.
func WithDataPath(path string) Option {
	return func(s *Service) {
		s.dataPath = path
	}
}

// WithDraftData uses data as the dataset and skips loading.
func WithDraftData(data model.DraftData) Option {
	return func(s *Service) {
		s.preset = &data
	}
}

// WithTopN sets the default and maximum size of a top-N request.
func WithTopN(defaultN, maxN int) Option {
	return func(s *Service) {
		if defaultN > 0 {
			s.topNDefault = defaultN
		}
		if maxN > 0 {
			s.maxTopN = maxN
		}
	}
}

// WithClock overrides the clock used for player ages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storageKey:  config.DefaultStorageKey,
		topNDefault: 3,
		maxTopN:     100,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.topNDefault > s.maxTopN {
		s.topNDefault = s.maxTopN
	}

	return s
}

// Start loads the dataset and prepares override storage. A dataset that
// cannot be loaded is logged and leaves the board empty; it does not fail
// the start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}

	s.logger.Info(ctx, "starting big board service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Warn(ctx, "no override store configured, using memory store")
	}
	s.overrides = repository.NewOverrideRepository(s.store,
		repository.WithKey(s.storageKey),
		repository.WithLogger(s.logger.Named("overrides")),
		repository.WithMetrics(s.metrics),
	)

	s.loadData(ctx)

	s.started = true
	s.logger.Info(ctx, "big board service started",
		logger.Int("players", len(s.data.Bio)),
		logger.Int("rankings", len(s.data.ScoutRankings)),
		logger.String("storageKey", s.overrides.Key()),
	)

	return nil
}

// loadData fills s.data. Callers hold s.mu.
func (s *Service) loadData(ctx context.Context) {
	if s.preset != nil {
		s.data = *s.preset
		s.metrics.RecordDatasetLoad("ok")
		return
	}

	res, err := dataset.Load(s.dataPath)
	if err != nil {
		s.dataErr = err
		s.data = model.DraftData{}
		s.metrics.RecordDatasetLoad("error")
		s.logger.Error(ctx, "failed to load draft data, board will be empty",
			logger.String("path", s.dataPath),
			logger.Error(err),
		)
		return
	}

	s.data = res.Data
	s.warnings = res.Warnings
	s.metrics.RecordDatasetLoad("ok")
	for _, w := range res.Warnings {
		s.logger.Warn(ctx, "draft data warning", logger.String("warning", w))
	}
}

// Stop releases the override store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping big board service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "failed to close override store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "big board service stopped")
}

// snapshot returns the dataset and override repository, or ErrNotStarted.
func (s *Service) snapshot() (model.DraftData, *repository.OverrideRepository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.DraftData{}, nil, ErrNotStarted
	}
	return s.data, s.overrides, nil
}

// Board returns the ordered board: the saved override order when one
// applies, otherwise consensus.
func (s *Service) Board(ctx context.Context) ([]types.BoardEntry, error) {
	s.boardMu.Lock()
	defer s.boardMu.Unlock()
	return s.board(ctx)
}

// board builds the current board. When overrides apply, the normalized
// 1..N order is written back if it differs from what was stored. Callers
// hold s.boardMu.
func (s *Service) board(ctx context.Context) ([]types.BoardEntry, error) {
	data, repo, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	loaded := repo.Load(ctx)
	overrides := ranking.Overrides(loaded.Overrides)
	board := ranking.BuildBoard(data.Bio, data.ScoutRankings, overrides)

	mode := metrics.ModeConsensus
	if ranking.HasOverrides(data.Bio, overrides) {
		mode = metrics.ModeOverride
		normalized := ranking.OrderEntries(board)
		if !maps.Equal(ranking.OverridesFromEntries(normalized), overrides) {
			if err := repo.Save(ctx, normalized); err != nil {
				s.logger.Error(ctx, "failed to save normalized order", logger.Error(err))
			}
		}
	}

	unranked := 0
	for _, e := range board {
		if !e.Ranked {
			unranked++
		}
	}
	latency := float64(time.Since(start).Microseconds()) / 1000
	if err := s.metrics.RecordBoardBuild(mode, len(board), unranked, latency); err != nil {
		s.logger.Warn(ctx, "failed to record board build", logger.Error(err))
	}
	s.logger.Debug(ctx, "built board",
		logger.String("mode", mode),
		logger.Int("players", len(board)),
		logger.Int("unranked", unranked),
	)

	return board, nil
}

// Reorder moves playerID from index from to index to on the current board,
// saves the whole new order, and returns it. A failed save is logged and
// the new board is still returned.
func (s *Service) Reorder(ctx context.Context, playerID, from, to int) ([]types.BoardEntry, error) {
	s.boardMu.Lock()
	defer s.boardMu.Unlock()

	current, err := s.board(ctx)
	if err != nil {
		return nil, err
	}

	next, err := ranking.ApplyReorder(current, playerID, from, to)
	if err != nil {
		s.metrics.RecordReorderError(reorderReason(err))
		s.logger.Warn(ctx, "rejected reorder",
			logger.Int("playerId", playerID),
			logger.Int("from", from),
			logger.Int("to", to),
			logger.Error(err),
		)
		return nil, err
	}
	if from == to {
		return next, nil
	}

	_, repo, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, ranking.OrderEntries(next)); err != nil {
		s.logger.Error(ctx, "failed to save reorder", logger.Int("playerId", playerID), logger.Error(err))
	}

	s.metrics.RecordReorder()
	s.logger.Info(ctx, "reordered board",
		logger.Int("playerId", playerID),
		logger.Int("from", from),
		logger.Int("to", to),
	)
	return next, nil
}

func reorderReason(err error) string {
	switch {
	case errors.Is(err, ranking.ErrInvalidIndex):
		return "invalid_index"
	case errors.Is(err, ranking.ErrPlayerMismatch):
		return "player_mismatch"
	default:
		return "other"
	}
}

// ResetOverrides deletes the saved order. Later boards are pure consensus.
func (s *Service) ResetOverrides(ctx context.Context) error {
	s.boardMu.Lock()
	defer s.boardMu.Unlock()

	_, repo, err := s.snapshot()
	if err != nil {
		return err
	}
	if err := repo.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to reset overrides", logger.Error(err))
		return err
	}
	s.metrics.RecordReset()
	return nil
}

// Overrides returns the saved order as loaded, including its load status.
func (s *Service) Overrides(ctx context.Context) (repository.LoadResult, error) {
	s.boardMu.Lock()
	defer s.boardMu.Unlock()

	_, repo, err := s.snapshot()
	if err != nil {
		return repository.LoadResult{}, err
	}
	return repo.Load(ctx), nil
}

// ScoutBoard returns the board as a single scout, or consensus, sees it.
func (s *Service) ScoutBoard(ctx context.Context, view string) ([]types.BoardEntry, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	board, err := ranking.ScoutBoard(data.Bio, data.ScoutRankings, view)
	if err != nil {
		s.logger.Debug(ctx, "unknown scout view", logger.String("view", view))
		return nil, err
	}
	return board, nil
}

// TopN returns the first n players of the consensus board. n of zero means
// the configured default.
func (s *Service) TopN(ctx context.Context, n int) ([]types.BoardEntry, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		n = s.topNDefault
	}
	if n > s.maxTopN {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrLimitTooLarge, n, s.maxTopN)
	}
	return ranking.TopN(data.Bio, data.ScoutRankings, n)
}

// Player returns one player's bio with its computed ranking.
func (s *Service) Player(ctx context.Context, playerID int) (types.PlayerDetail, error) {
	data, _, err := s.snapshot()
	if err != nil {
		return types.PlayerDetail{}, err
	}

	var bio *model.PlayerBio
	for i := range data.Bio {
		if data.Bio[i].PlayerID == playerID {
			bio = &data.Bio[i]
			break
		}
	}
	if bio == nil {
		return types.PlayerDetail{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	detail := types.PlayerDetail{
		Bio:           *bio,
		HeightDisplay: bio.HeightDisplay(),
		Location:      bio.Location(),
		HighSchool:    bio.HighSchoolLocation(),
		International: bio.IsInternational(),
		Initials:      bio.Initials(),
	}
	if age, err := bio.Age(s.now()); err == nil {
		detail.Age = age
	} else {
		s.logger.Debug(ctx, "player has no usable birth date", logger.Int("playerId", playerID), logger.Error(err))
	}

	if r, ok := ranking.IndexRankings(data.ScoutRankings)[playerID]; ok {
		detail.ScoutRanking = &r
		detail.Ranking = ranking.Compute(r)
		detail.TopTen = ranking.IsTopTen(r)
		detail.FirstRound = ranking.IsFirstRound(r)
		if pos, ok := ranking.ConsensusPosition(data.ScoutRankings, playerID); ok {
			detail.ConsensusPosition = pos
		}
	}
	return detail, nil
}

// Scouts returns the scout names in dataset order.
func (s *Service) Scouts() []string {
	scouts := model.Scouts()
	out := make([]string, len(scouts))
	for i, sc := range scouts {
		out[i] = string(sc)
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"storageKey":  s.storageKey,
		"topNDefault": s.topNDefault,
		"maxTopN":     s.maxTopN,
	}

	if s.started {
		source := "bundled"
		switch {
		case s.preset != nil:
			source = "preset"
		case s.dataPath != "":
			source = s.dataPath
		}
		stats["players"] = len(s.data.Bio)
		stats["rankings"] = len(s.data.ScoutRankings)
		stats["dataSource"] = source
		stats["dataWarnings"] = len(s.warnings)
		stats["dataLoaded"] = s.dataErr == nil
	}

	return stats
}
