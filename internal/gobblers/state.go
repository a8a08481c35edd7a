package gobblers

import (
	"errors"
	"fmt"
)

var ErrCorruptState = errors.New("corrupt game state")

// PieceRef names a piece by owner and size.
type PieceRef struct {
	Owner Player `json:"owner"`
	Size  int    `json:"size"`
}

func (that PieceRef) id() (PieceID, bool) {
	if !that.Owner.Valid() || that.Size < 1 || that.Size > NumSizes {
		return NoPiece, false
	}
	return IDOf(that.Owner, that.Size), true
}

// PieceState is the persisted part of a piece. IsOnTop is derived on restore.
type PieceState struct {
	PieceRef
	Location         Location `json:"location"`
	PreviousLocation Location `json:"previous_location"`
}

// State is the serializable form of a Game.
type State struct {
	CurrentPlayer Player                `json:"current_player"`
	Selected      *PieceRef             `json:"selected,omitempty"`
	Winner        Player                `json:"winner"`
	Board         [NumCells][]PieceRef  `json:"board"`
	Pieces        [NumPieces]PieceState `json:"pieces"`
}

// State returns a deep copy of the game as a State.
func (that *Game) State() State {
	state := State{
		CurrentPlayer: that.currentPlayer,
		Winner:        that.winner,
	}

	if that.selected != NoPiece {
		state.Selected = &PieceRef{Owner: that.selected.Owner(), Size: that.selected.Size()}
	}

	for cell, stack := range that.board {
		refs := make([]PieceRef, 0, len(stack))
		for _, id := range stack {
			refs = append(refs, PieceRef{Owner: id.Owner(), Size: id.Size()})
		}
		state.Board[cell] = refs
	}

	for id, piece := range that.pieces {
		state.Pieces[id] = PieceState{
			PieceRef:         PieceRef{Owner: piece.Owner, Size: piece.Size},
			Location:         piece.Location,
			PreviousLocation: piece.PreviousLocation,
		}
	}

	return state
}

// Restore rebuilds a game from a State, rejecting anything that breaks the
// board invariants.
func Restore(state State) (*Game, error) {
	if !state.CurrentPlayer.Valid() {
		return nil, fmt.Errorf("%w: current player %d", ErrCorruptState, state.CurrentPlayer)
	}

	if state.Winner != NoPlayer && !state.Winner.Valid() {
		return nil, fmt.Errorf("%w: winner %d", ErrCorruptState, state.Winner)
	}

	game := &Game{
		currentPlayer: state.CurrentPlayer,
		selected:      NoPiece,
		winner:        state.Winner,
	}

	seen := make(map[PieceID]bool, NumPieces)
	for _, ps := range state.Pieces {
		id, ok := ps.id()
		if !ok {
			return nil, fmt.Errorf("%w: piece %+v", ErrCorruptState, ps.PieceRef)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate piece %+v", ErrCorruptState, ps.PieceRef)
		}
		seen[id] = true

		if !validLocation(ps.Location) || ps.Location == Nowhere {
			return nil, fmt.Errorf("%w: piece %+v location %d", ErrCorruptState, ps.PieceRef, ps.Location)
		}
		if !validLocation(ps.PreviousLocation) {
			return nil, fmt.Errorf("%w: piece %+v previous location %d", ErrCorruptState, ps.PieceRef, ps.PreviousLocation)
		}

		game.pieces[id] = Piece{
			Owner:            ps.Owner,
			Size:             ps.Size,
			Location:         ps.Location,
			PreviousLocation: ps.PreviousLocation,
			IsOnTop:          true,
		}
	}

	onBoard := make(map[PieceID]bool, NumPieces)
	for cell, refs := range state.Board {
		stack := make([]PieceID, 0, len(refs))
		for i, ref := range refs {
			id, ok := ref.id()
			if !ok {
				return nil, fmt.Errorf("%w: cell %d holds piece %+v", ErrCorruptState, cell+1, ref)
			}
			if onBoard[id] {
				return nil, fmt.Errorf("%w: piece %+v is on the board twice", ErrCorruptState, ref)
			}
			if game.pieces[id].Location != OnBoard(cell) {
				return nil, fmt.Errorf("%w: piece %+v is in cell %d but located at %s", ErrCorruptState, ref, cell+1, game.pieces[id].Location)
			}
			if i > 0 && game.pieces[stack[i-1]].Size >= ref.Size {
				return nil, fmt.Errorf("%w: cell %d is not stacked by increasing size", ErrCorruptState, cell+1)
			}
			onBoard[id] = true
			stack = append(stack, id)
		}
		game.board[cell] = stack
	}

	for id, piece := range game.pieces {
		if piece.Location.IsOnBoard() && !onBoard[PieceID(id)] {
			return nil, fmt.Errorf("%w: piece %+v is located at %s but missing from the board", ErrCorruptState, PieceID(id), piece.Location)
		}
	}

	if state.Selected != nil {
		id, ok := state.Selected.id()
		if !ok || onBoard[id] {
			return nil, fmt.Errorf("%w: selected piece %+v", ErrCorruptState, *state.Selected)
		}
		if state.Winner != NoPlayer {
			return nil, fmt.Errorf("%w: selection in a finished game", ErrCorruptState)
		}
		if id.Owner() != state.CurrentPlayer {
			return nil, fmt.Errorf("%w: selected piece belongs to player %d", ErrCorruptState, id.Owner())
		}
		game.selected = id
	}

	game.updateOnTop()

	return game, nil
}

func validLocation(location Location) bool {
	return location == Nowhere || location == Sideline || location.IsOnBoard()
}
