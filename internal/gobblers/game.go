package gobblers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSize          = errors.New("invalid gobbler size")
	ErrInvalidCell          = errors.New("invalid cell index")
	ErrPieceAlreadySelected = errors.New("a gobbler is already selected")
	ErrPieceCovered         = errors.New("gobbler is covered")
	ErrNothingSelected      = errors.New("no gobbler selected")
	ErrSameSlot             = errors.New("gobbler cannot go back where it came from")
	ErrCellBlocked          = errors.New("cell is covered by an equal or larger gobbler")
	ErrGameFinished         = errors.New("game is already finished")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{6, 4, 2},
	}
)

// Game holds the full state of one match. It performs no locking; callers
// sharing a Game between goroutines must serialize access themselves.
type Game struct {
	pieces        [NumPieces]Piece
	board         [NumCells][]PieceID
	currentPlayer Player
	selected      PieceID
	winner        Player
}

// NewGame returns a fresh game: every piece on the sideline, player 0 to move.
func NewGame() *Game {
	game := &Game{
		currentPlayer: PlayerZero,
		selected:      NoPiece,
		winner:        NoPlayer,
	}

	for owner := PlayerZero; owner <= PlayerOne; owner++ {
		for size := 1; size <= NumSizes; size++ {
			game.pieces[IDOf(owner, size)] = newPiece(owner, size)
		}
	}

	return game
}

func (that *Game) CurrentPlayer() Player {
	return that.currentPlayer
}

// Winner returns NoPlayer while the game is undecided.
func (that *Game) Winner() Player {
	return that.winner
}

func (that *Game) IsOver() bool {
	return that.winner != NoPlayer
}

func (that *Game) Selected() (Piece, bool) {
	if that.selected == NoPiece {
		return Piece{}, false
	}
	return that.pieces[that.selected], true
}

// Piece returns the piece of the given owner and 1-based size.
func (that *Game) Piece(owner Player, size int) (Piece, bool) {
	if !owner.Valid() || size < 1 || size > NumSizes {
		return Piece{}, false
	}
	return that.pieces[IDOf(owner, size)], true
}

func (that *Game) Pieces() []Piece {
	pieces := make([]Piece, NumPieces)
	copy(pieces, that.pieces[:])
	return pieces
}

// Stack returns the pieces of a 0-based cell from bottom to top.
func (that *Game) Stack(cell int) []Piece {
	if cell < 0 || cell >= NumCells {
		return nil
	}

	stack := make([]Piece, 0, len(that.board[cell]))
	for _, id := range that.board[cell] {
		stack = append(stack, that.pieces[id])
	}
	return stack
}

// Top returns the visible piece of a 0-based cell.
func (that *Game) Top(cell int) (Piece, bool) {
	if cell < 0 || cell >= NumCells || len(that.board[cell]) == 0 {
		return Piece{}, false
	}
	return that.pieces[that.topID(cell)], true
}

// CanSelect reports why SelectPiece(size) would fail, or nil if it would succeed.
func (that *Game) CanSelect(size int) error {
	if size < 1 || size > NumSizes {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	if that.selected != NoPiece {
		return ErrPieceAlreadySelected
	}

	if that.IsOver() {
		return ErrGameFinished
	}

	if !that.pieces[IDOf(that.currentPlayer, size)].IsOnTop {
		return ErrPieceCovered
	}

	return nil
}

// SelectPiece picks up the current player's gobbler of the given 1-based size.
func (that *Game) SelectPiece(size int) bool {
	if that.CanSelect(size) != nil {
		return false
	}

	id := IDOf(that.currentPlayer, size)
	piece := &that.pieces[id]

	if piece.Location.IsOnBoard() {
		cell := int(piece.Location)
		that.board[cell] = that.board[cell][:len(that.board[cell])-1]
	}

	piece.PreviousLocation = piece.Location
	piece.Location = Sideline
	that.selected = id

	that.updateOnTop()

	return true
}

// CanPlace reports why PlaceSelected(cell) would fail, or nil if it would succeed.
func (that *Game) CanPlace(cell int) error {
	if that.IsOver() {
		return ErrGameFinished
	}

	if that.selected == NoPiece {
		return ErrNothingSelected
	}

	if cell < 1 || cell > NumCells {
		return fmt.Errorf("%w: %d", ErrInvalidCell, cell)
	}

	index := cell - 1
	piece := that.pieces[that.selected]

	if piece.PreviousLocation == OnBoard(index) {
		return ErrSameSlot
	}

	if len(that.board[index]) > 0 && that.pieces[that.topID(index)].Size >= piece.Size {
		return ErrCellBlocked
	}

	return nil
}

// PlaceSelected puts the selected gobbler on the given 1-based cell and passes
// the turn. The second result is the winner, or NoPlayer.
func (that *Game) PlaceSelected(cell int) (bool, Player) {
	if that.CanPlace(cell) != nil {
		return false, NoPlayer
	}

	index := cell - 1
	that.board[index] = append(that.board[index], that.selected)
	that.pieces[that.selected].Location = OnBoard(index)

	that.updateOnTop()

	winner := that.checkForWinner()
	if winner != NoPlayer {
		that.winner = winner
	}

	that.currentPlayer = that.currentPlayer.Opponent()
	that.selected = NoPiece

	return true, winner
}

// CellView is the visible occupant of a cell.
type CellView struct {
	Empty bool   `json:"empty"`
	Owner Player `json:"owner"`
	Size  int    `json:"size"`
}

// Board returns the top occupant of every cell.
func (that *Game) Board() [NumCells]CellView {
	var views [NumCells]CellView

	for cell := range that.board {
		top, ok := that.Top(cell)
		if !ok {
			views[cell] = CellView{Empty: true, Owner: NoPlayer}
			continue
		}
		views[cell] = CellView{Owner: top.Owner, Size: top.Size}
	}

	return views
}

// String renders the board three cells per row as |size(owner), or |____ when empty.
func (that *Game) String() string {
	var sb strings.Builder

	for cell, view := range that.Board() {
		if view.Empty {
			sb.WriteString("|____")
		} else {
			fmt.Fprintf(&sb, "|%d(%d)", view.Size, view.Owner)
		}

		if cell%3 == 2 {
			sb.WriteString("|\n")
		}
	}
	sb.WriteString("-----------------------")

	return sb.String()
}

func (that *Game) topID(cell int) PieceID {
	stack := that.board[cell]
	return stack[len(stack)-1]
}

// checkForWinner returns the owner of the first line whose three top pieces match.
func (that *Game) checkForWinner() Player {
	for _, combo := range WinCombos {
		owner := NoPlayer
		for i, cell := range combo {
			if len(that.board[cell]) == 0 {
				owner = NoPlayer
				break
			}

			top := that.pieces[that.topID(cell)].Owner
			if i == 0 {
				owner = top
				continue
			}

			if top != owner {
				owner = NoPlayer
				break
			}
		}

		if owner != NoPlayer {
			return owner
		}
	}

	return NoPlayer
}

// updateOnTop flags exactly the last piece of every stack. Sideline pieces are untouched.
func (that *Game) updateOnTop() {
	for _, stack := range that.board {
		for i, id := range stack {
			that.pieces[id].IsOnTop = i == len(stack)-1
		}
	}
}
