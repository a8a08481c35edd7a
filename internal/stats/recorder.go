// Package stats records every successful placement of a match and, once the
// match has a winner, appends the rows to an append-only sink.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/rocketscienceinc/gobblers-backend/internal/gobblers"
)

// Header is the fixed column order of every sink.
var Header = []string{
	"match_id",
	"turn",
	"player",
	"player_name",
	"gobbler_size",
	"board_position",
	"winner",
	"recorded_at",
}

// Move is one successful placement. Size and Cell are 1-based.
type Move struct {
	MatchID    string
	Turn       int
	Player     gobblers.Player
	PlayerName string
	Size       int
	Cell       int
}

// Row is a move stamped with the outcome of its match.
type Row struct {
	Move
	Winner     gobblers.Player
	RecordedAt time.Time
}

func (that Row) Strings() []string {
	return []string{
		that.MatchID,
		strconv.Itoa(that.Turn),
		strconv.Itoa(int(that.Player)),
		that.PlayerName,
		strconv.Itoa(that.Size),
		strconv.Itoa(that.Cell),
		strconv.Itoa(int(that.Winner)),
		that.RecordedAt.UTC().Format(time.RFC3339),
	}
}

type Sink interface {
	Append(ctx context.Context, rows []Row) error
	Close() error
}

type Recorder struct {
	logger *slog.Logger
	sink   Sink
	now    func() time.Time

	mu      sync.Mutex
	pending map[string][]Move
}

func NewRecorder(logger *slog.Logger, sink Sink) *Recorder {
	return &Recorder{
		logger:  logger.With("component", "stats"),
		sink:    sink,
		now:     time.Now,
		pending: make(map[string][]Move),
	}
}

// RecordMove buffers a placement until the match is decided.
func (that *Recorder) RecordMove(move Move) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pending[move.MatchID] = append(that.pending[move.MatchID], move)
}

// Pending returns the buffered moves of a match in turn order.
func (that *Recorder) Pending(matchID string) []Move {
	that.mu.Lock()
	defer that.mu.Unlock()

	moves := make([]Move, len(that.pending[matchID]))
	copy(moves, that.pending[matchID])

	return moves
}

// Save appends the buffered moves of a match, stamped with its winner.
// The buffer is kept if the sink fails so the save can be retried.
func (that *Recorder) Save(ctx context.Context, matchID string, winner gobblers.Player) error {
	log := that.logger.With("method", "Save", "matchID", matchID)

	that.mu.Lock()
	moves := that.pending[matchID]
	that.mu.Unlock()

	if len(moves) == 0 {
		log.Debug("no moves to save")
		return nil
	}

	recordedAt := that.now()
	rows := make([]Row, 0, len(moves))
	for _, move := range moves {
		rows = append(rows, Row{Move: move, Winner: winner, RecordedAt: recordedAt})
	}

	if err := that.sink.Append(ctx, rows); err != nil {
		return fmt.Errorf("failed to append stats rows: %w", err)
	}

	that.Discard(matchID)

	log.Info("stats saved", "rows", len(rows), "winner", int(winner))

	return nil
}

// Discard drops the buffered moves of a match.
func (that *Recorder) Discard(matchID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.pending, matchID)
}

func (that *Recorder) Close() error {
	if err := that.sink.Close(); err != nil {
		return fmt.Errorf("failed to close stats sink: %w", err)
	}

	return nil
}
