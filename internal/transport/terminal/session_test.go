package terminal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rocketscienceinc/gobblers-backend/internal/repository"
	"github.com/rocketscienceinc/gobblers-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(input string, out io.Writer) *Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewMatchManager(logger, repository.NewMemoryMatchRepository(), nil)

	return New(logger, manager, [2]string{"Alice", "Bob"}, strings.NewReader(input), out)
}

func TestSession_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a match to the end and declines a rematch", func(t *testing.T) {
		// Given: a scripted match where Alice takes the top row, with a few bad inputs
		input := strings.Join([]string{
			"abc", "1", "1", // Alice: not a number, then size 1 on cell 1
			"1", "5", // Bob
			"2", "2", // Alice
			"2", "9", // Bob
			"3", "10", "3", // Alice: cell out of range, then cell 3
			"n",
		}, "\n")

		var out bytes.Buffer
		session := newTestSession(input, &out)

		// When: the session runs
		err := session.Run(ctx)

		// Then: the winner is announced once and the session ends cleanly
		require.NoError(t, err)

		output := out.String()
		assert.Contains(t, output, "Player 0 (Alice), select a gobbler to move (1-6): ")
		assert.Contains(t, output, "Player 1 (Bob), where would you like to place gobbler 2 (1-9)? ")
		assert.Contains(t, output, "|1(0)|2(0)|3(0)|\n")
		assert.Contains(t, output, "Player 0 (Alice) has won!")
		assert.Contains(t, output, "Play again? (y/n): ")
		assert.Equal(t, 2, strings.Count(output, "Try again!"))
		assert.Equal(t, 1, strings.Count(output, "Let the games begin!"))
	})

	t.Run("Rejects illegal moves and starts a rematch", func(t *testing.T) {
		// Given: Bob tries to cover a larger gobbler before the match is won
		input := strings.Join([]string{
			"5", "2", // Alice
			"4", "2", "1", // Bob: blocked by the size 5, then cell 1
			"1", "5", // Alice
			"6", "2", // Bob covers the size 5
			"2", "4", // Alice
			"3", "7", // Bob
			"3", "6", // Alice takes the middle row 4, 5, 6
			"y",
		}, "\n")

		var out bytes.Buffer
		session := newTestSession(input, &out)

		// When: the session runs until the input ends
		err := session.Run(ctx)

		// Then: the blocked placement is retried and a second match starts
		require.NoError(t, err)

		output := out.String()
		assert.Equal(t, 1, strings.Count(output, "Try again!"))
		assert.Contains(t, output, "Player 0 (Alice) has won!")
		assert.Equal(t, 2, strings.Count(output, "Let the games begin!"))
	})

	t.Run("Ends quietly when the input closes mid-match", func(t *testing.T) {
		var out bytes.Buffer
		session := newTestSession("1\n", &out)

		err := session.Run(ctx)

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "has won!")
	})
}
