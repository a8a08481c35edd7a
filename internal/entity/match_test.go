package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/gobblers-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblers-backend/internal/gobblers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch(t *testing.T) {
	t.Run("Creates an ongoing match with a fresh game", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		// When: a match is created for two players
		match, err := NewMatch("123", [2]string{" Alice ", "Bob"}, now)

		// Then: names are trimmed and the game is fresh
		require.NoError(t, err)
		assert.Equal(t, "123", match.ID)
		assert.Equal(t, [2]string{"Alice", "Bob"}, match.PlayerNames)
		assert.True(t, match.IsOngoing())
		assert.Equal(t, gobblers.NoPlayer, match.Winner)
		assert.Equal(t, gobblers.NewGame().State(), match.State)
		assert.Equal(t, now, match.CreatedAt)
	})

	t.Run("Rejects empty names", func(t *testing.T) {
		_, err := NewMatch("123", [2]string{"Alice", "  "}, time.Now())

		assert.ErrorIs(t, err, apperror.ErrInvalidPlayerNames)
	})

	t.Run("Rejects duplicate names", func(t *testing.T) {
		_, err := NewMatch("123", [2]string{"alice", "ALICE"}, time.Now())

		assert.ErrorIs(t, err, apperror.ErrInvalidPlayerNames)
	})
}

func TestMatch_Apply(t *testing.T) {
	t.Run("Finished game finishes the match", func(t *testing.T) {
		// Given: a match and a game won by player 1
		match, err := NewMatch("123", [2]string{"Alice", "Bob"}, time.Now())
		require.NoError(t, err)

		game, err := match.Game()
		require.NoError(t, err)

		for _, p := range [][2]int{{1, 5}, {1, 1}, {2, 9}, {2, 2}, {3, 4}, {3, 3}} {
			require.True(t, game.SelectPiece(p[0]))
			ok, _ := game.PlaceSelected(p[1])
			require.True(t, ok)
		}

		// When: the game is applied to the match
		match.Apply(game, time.Now())

		// Then: the match is finished with player 1 as the winner
		assert.True(t, match.IsFinished())
		assert.Equal(t, gobblers.PlayerOne, match.Winner)
		assert.Equal(t, "Bob", match.PlayerName(match.Winner))
	})

	t.Run("Unknown player has no name", func(t *testing.T) {
		match := &Match{PlayerNames: [2]string{"Alice", "Bob"}}

		assert.Empty(t, match.PlayerName(gobblers.NoPlayer))
	})
}
