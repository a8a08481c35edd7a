// Package terminal is the text front end: it prompts for gobbler sizes and
// board cells on an input stream and prints the board to an output stream.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/gobblers-backend/internal/apperror"
	"github.com/rocketscienceinc/gobblers-backend/internal/entity"
	"github.com/rocketscienceinc/gobblers-backend/internal/gobblers"
)

var errInputClosed = errors.New("input closed")

type matchUseCase interface {
	NewMatch(ctx context.Context, names [2]string) (*entity.Match, error)
	SelectPiece(ctx context.Context, id string, size int) (*entity.Match, error)
	PlacePiece(ctx context.Context, id string, cell int) (*entity.Match, error)
	RestartMatch(ctx context.Context, id string) (*entity.Match, error)
}

type Session struct {
	logger  *slog.Logger
	matches matchUseCase
	names   [2]string

	in  *bufio.Scanner
	out io.Writer
}

func New(logger *slog.Logger, matches matchUseCase, names [2]string, in io.Reader, out io.Writer) *Session {
	return &Session{
		logger:  logger.With("component", "terminal"),
		matches: matches,
		names:   names,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run plays matches until the players decline a rematch or the input ends.
func (that *Session) Run(ctx context.Context) error {
	match, err := that.matches.NewMatch(ctx, that.names)
	if err != nil {
		return fmt.Errorf("failed to start match: %w", err)
	}

	for {
		that.println("Let the games begin!")

		match, err = that.playMatch(ctx, match)
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		game, err := match.Game()
		if err != nil {
			return err
		}

		that.println(game.String())
		that.printf("Player %d (%s) has won!\n", match.Winner, match.PlayerName(match.Winner))

		answer, err := that.prompt("Play again? (y/n): ")
		if errors.Is(err, errInputClosed) || strings.TrimSpace(answer) != "y" {
			return nil
		}

		match, err = that.matches.RestartMatch(ctx, match.ID)
		if err != nil {
			return fmt.Errorf("failed to restart match: %w", err)
		}
	}
}

func (that *Session) playMatch(ctx context.Context, match *entity.Match) (*entity.Match, error) {
	for !match.IsFinished() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		game, err := match.Game()
		if err != nil {
			return nil, err
		}
		that.println(game.String())

		player := game.CurrentPlayer()
		name := match.PlayerName(player)

		var size int
		match, err = that.retry(func() (*entity.Match, error) {
			raw, err := that.prompt(fmt.Sprintf("Player %d (%s), select a gobbler to move (1-6): ", player, name))
			if err != nil {
				return nil, err
			}

			if size, err = gobblers.ParseSize(raw); err != nil {
				return nil, err
			}

			return that.matches.SelectPiece(ctx, match.ID, size)
		})
		if err != nil {
			return nil, err
		}

		game, err = match.Game()
		if err != nil {
			return nil, err
		}
		that.println(game.String())

		match, err = that.retry(func() (*entity.Match, error) {
			raw, err := that.prompt(fmt.Sprintf("Player %d (%s), where would you like to place gobbler %d (1-9)? ", player, name, size))
			if err != nil {
				return nil, err
			}

			cell, err := gobblers.ParseCell(raw)
			if err != nil {
				return nil, err
			}

			return that.matches.PlacePiece(ctx, match.ID, cell)
		})
		if err != nil {
			return nil, err
		}
	}

	return match, nil
}

// retry repeats an action until it succeeds or fails for a reason the player cannot fix.
func (that *Session) retry(action func() (*entity.Match, error)) (*entity.Match, error) {
	log := that.logger.With("method", "retry")

	for {
		match, err := action()
		if err == nil {
			return match, nil
		}

		if !isUserError(err) {
			return nil, err
		}

		log.Debug("rejected input", "reason", err)
		that.println("Try again!")
	}
}

func isUserError(err error) bool {
	return errors.Is(err, apperror.ErrIllegalAction) ||
		errors.Is(err, gobblers.ErrInvalidSize) ||
		errors.Is(err, gobblers.ErrInvalidCell)
}

func (that *Session) prompt(text string) (string, error) {
	that.printf("%s", text)

	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errInputClosed
	}

	return that.in.Text(), nil
}

func (that *Session) println(text string) {
	that.printf("%s\n", text)
}

func (that *Session) printf(format string, args ...any) {
	// nothing sensible to do when the terminal is gone
	_, _ = fmt.Fprintf(that.out, format, args...)
}
