package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/gobblers-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblers-backend/internal/gobblers"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Match is the stored form of one game between two named players.
type Match struct {
	ID          string          `json:"id"`
	PlayerNames [2]string       `json:"player_names"`
	Status      string          `json:"status"`
	Winner      gobblers.Player `json:"winner"`
	Turn        int             `json:"turn"`
	State       gobblers.State  `json:"state"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewMatch(id string, names [2]string, now time.Time) (*Match, error) {
	playerNames, err := NormalizePlayerNames(names)
	if err != nil {
		return nil, err
	}

	return &Match{
		ID:          id,
		PlayerNames: playerNames,
		Status:      StatusOngoing,
		Winner:      gobblers.NoPlayer,
		State:       gobblers.NewGame().State(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizePlayerNames trims both names and requires them to be non-empty and distinct.
func NormalizePlayerNames(names [2]string) ([2]string, error) {
	first, second := strings.TrimSpace(names[0]), strings.TrimSpace(names[1])

	if first == "" || second == "" {
		return [2]string{}, fmt.Errorf("%w: empty name", apperror.ErrInvalidPlayerNames)
	}

	if strings.EqualFold(first, second) {
		return [2]string{}, fmt.Errorf("%w: %q is used twice", apperror.ErrInvalidPlayerNames, first)
	}

	return [2]string{first, second}, nil
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// PlayerName returns the display name of a side.
func (that *Match) PlayerName(player gobblers.Player) string {
	if !player.Valid() {
		return ""
	}
	return that.PlayerNames[player]
}

// Game rebuilds the engine from the stored state.
func (that *Match) Game() (*gobblers.Game, error) {
	game, err := gobblers.Restore(that.State)
	if err != nil {
		return nil, fmt.Errorf("failed to restore match %s: %w", that.ID, err)
	}

	return game, nil
}

// Apply stores the engine state back into the match and updates its status.
func (that *Match) Apply(game *gobblers.Game, now time.Time) {
	that.State = game.State()
	that.Winner = game.Winner()
	that.UpdatedAt = now

	if game.IsOver() {
		that.Status = StatusFinished
	}
}
