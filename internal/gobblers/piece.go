package gobblers

import "fmt"

const (
	NumPlayers = 2
	NumSizes   = 6
	NumCells   = 9
	NumPieces  = NumPlayers * NumSizes
)

// Player identifies one of the two sides. NoPlayer marks "no winner yet".
type Player int8

const (
	NoPlayer   Player = -1
	PlayerZero Player = 0
	PlayerOne  Player = 1
)

func (that Player) Valid() bool {
	return that == PlayerZero || that == PlayerOne
}

func (that Player) Opponent() Player {
	if that == PlayerZero {
		return PlayerOne
	}
	return PlayerZero
}

// Location is where a piece sits: a board cell 0..8, the sideline, or nowhere.
// Nowhere is only used as a previous location before the first pick-up.
type Location int8

const (
	Nowhere  Location = -2
	Sideline Location = -1
)

func OnBoard(cell int) Location {
	return Location(cell)
}

func (that Location) IsOnBoard() bool {
	return that >= 0 && int(that) < NumCells
}

func (that Location) String() string {
	switch {
	case that == Sideline:
		return "sideline"
	case that == Nowhere:
		return "nowhere"
	default:
		return fmt.Sprintf("cell %d", int(that)+1)
	}
}

// PieceID is the stable arena index of a piece: owner*NumSizes + size-1.
type PieceID int8

const NoPiece PieceID = -1

func IDOf(owner Player, size int) PieceID {
	return PieceID(int(owner)*NumSizes + size - 1)
}

func (that PieceID) Owner() Player {
	return Player(int(that) / NumSizes)
}

func (that PieceID) Size() int {
	return int(that)%NumSizes + 1
}

func (that PieceID) Valid() bool {
	return that >= 0 && int(that) < NumPieces
}

// Piece is a gobbler. Values returned by Game accessors are copies.
type Piece struct {
	Owner            Player   `json:"owner"`
	Size             int      `json:"size"`
	Location         Location `json:"location"`
	PreviousLocation Location `json:"previous_location"`
	IsOnTop          bool     `json:"is_on_top"`
}

func (that Piece) ID() PieceID {
	return IDOf(that.Owner, that.Size)
}

func newPiece(owner Player, size int) Piece {
	return Piece{
		Owner:            owner,
		Size:             size,
		Location:         Sideline,
		PreviousLocation: Nowhere,
		IsOnTop:          true,
	}
}
