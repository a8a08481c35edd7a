package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gobblers-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblers-backend/internal/entity"
	"github.com/rocketscienceinc/gobblers-backend/internal/gobblers"
	"github.com/rocketscienceinc/gobblers-backend/internal/stats"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

// StatsRecorder observes successful placements and finished matches.
type StatsRecorder interface {
	RecordMove(move stats.Move)
	Save(ctx context.Context, matchID string, winner gobblers.Player) error
	Discard(matchID string)
}

// MatchManager drives one engine per match. Calls for the same match are
// serialized; different matches proceed independently.
type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo
	recorder  StatsRecorder

	newID func() string
	now   func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewMatchManager builds a manager. recorder may be nil to disable stats.
func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, recorder StatsRecorder) *MatchManager {
	return &MatchManager{
		logger:    logger.With("component", "match_manager"),
		matchRepo: matchRepo,
		recorder:  recorder,

		newID: uuid.NewString,
		now:   time.Now,

		locks: make(map[string]*sync.Mutex),
	}
}

func (that *MatchManager) NewMatch(ctx context.Context, names [2]string) (*entity.Match, error) {
	log := that.logger.With("method", "NewMatch")

	match, err := entity.NewMatch(that.newID(), names, that.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	log.Info("match created", "matchID", match.ID)

	return match, nil
}

func (that *MatchManager) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	return match, nil
}

// SelectPiece picks up the current player's gobbler of the given size.
// An illegal selection returns the stored match unchanged and an error
// wrapping both apperror.ErrIllegalAction and the engine's reason.
func (that *MatchManager) SelectPiece(ctx context.Context, id string, size int) (*entity.Match, error) {
	unlock := that.lock(id)
	defer unlock()

	match, game, err := that.loadOngoing(ctx, id)
	if err != nil {
		return match, err
	}

	if err = game.CanSelect(size); err != nil {
		return match, fmt.Errorf("%w: %w", apperror.ErrIllegalAction, err)
	}

	game.SelectPiece(size)
	match.Apply(game, that.now())

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	return match, nil
}

// PlacePiece puts the selected gobbler on a cell. When the placement decides
// the match, the returned match is finished and carries the winner.
func (that *MatchManager) PlacePiece(ctx context.Context, id string, cell int) (*entity.Match, error) {
	log := that.logger.With("method", "PlacePiece", "matchID", id)

	unlock := that.lock(id)
	defer unlock()

	match, game, err := that.loadOngoing(ctx, id)
	if err != nil {
		return match, err
	}

	if err = game.CanPlace(cell); err != nil {
		return match, fmt.Errorf("%w: %w", apperror.ErrIllegalAction, err)
	}

	piece, _ := game.Selected()
	player := game.CurrentPlayer()

	_, winner := game.PlaceSelected(cell)
	match.Turn++
	match.Apply(game, that.now())

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	if that.recorder != nil {
		that.recorder.RecordMove(stats.Move{
			MatchID:    match.ID,
			Turn:       match.Turn,
			Player:     player,
			PlayerName: match.PlayerName(player),
			Size:       piece.Size,
			Cell:       cell,
		})
	}

	if winner != gobblers.NoPlayer {
		log.Info("match finished", "winner", int(winner), "turns", match.Turn)

		if that.recorder != nil {
			if err = that.recorder.Save(ctx, match.ID, winner); err != nil {
				log.Error("failed to save stats", "error", err)
			}
		}
	}

	return match, nil
}

// RestartMatch replaces a match with a fresh one between the same players.
func (that *MatchManager) RestartMatch(ctx context.Context, id string) (*entity.Match, error) {
	old, err := that.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	match, err := that.NewMatch(ctx, old.PlayerNames)
	if err != nil {
		return nil, err
	}

	if err = that.DeleteMatch(ctx, id); err != nil {
		return nil, err
	}

	return match, nil
}

func (that *MatchManager) DeleteMatch(ctx context.Context, id string) error {
	log := that.logger.With("method", "DeleteMatch", "matchID", id)

	unlock := that.lock(id)
	err := that.matchRepo.DeleteByID(ctx, id)
	unlock()

	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	if that.recorder != nil {
		that.recorder.Discard(id)
	}

	that.locksMu.Lock()
	delete(that.locks, id)
	that.locksMu.Unlock()

	log.Info("match deleted")

	return nil
}

func (that *MatchManager) loadOngoing(ctx context.Context, id string) (*entity.Match, *gobblers.Game, error) {
	match, err := that.GetMatch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if match.IsFinished() {
		return match, nil, apperror.ErrMatchFinished
	}

	game, err := match.Game()
	if err != nil {
		return nil, nil, err
	}

	return match, game, nil
}

func (that *MatchManager) lock(id string) func() {
	that.locksMu.Lock()
	mu, ok := that.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		that.locks[id] = mu
	}
	that.locksMu.Unlock()

	mu.Lock()

	return mu.Unlock
}
