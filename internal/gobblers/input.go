package gobblers

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize converts user input into a 1-based gobbler size.
func ParseSize(raw string) (int, error) {
	size, ok := parseIndex(raw, 1, NumSizes)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, raw)
	}
	return size, nil
}

// ParseCell converts user input into a 1-based board cell.
func ParseCell(raw string) (int, error) {
	cell, ok := parseIndex(raw, 1, NumCells)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCell, raw)
	}
	return cell, nil
}

func parseIndex(raw string, minimum, maximum int) (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}

	if value < minimum || value > maximum {
		return 0, false
	}

	return value, true
}
