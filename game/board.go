package game

import "math/rand"

// Tile is one card on the board. Two tiles share a PairID exactly once
// per board. JSON names match the stored board shape and the client payload.
type Tile struct {
	PairID  int    `json:"pairId"`
	Image   string `json:"image"`
	Visible bool   `json:"visible"`
	Matched bool   `json:"matched"`
}

// Board is an ordered sequence of tiles. Tile identity is its index,
// stable for the lifetime of the board.
type Board []Tile

// Generate builds a shuffled board from the first pairCount images
// (two tiles per image). Callers pad short image lists beforehand;
// if the list is still short, pairCount is clamped down.
func Generate(images []string, pairCount int) Board {
	if pairCount > len(images) {
		pairCount = len(images)
	}
	board := make(Board, 0, pairCount*2)
	for i := 0; i < pairCount; i++ {
		board = append(board,
			Tile{PairID: i, Image: images[i]},
			Tile{PairID: i, Image: images[i]},
		)
	}
	rand.Shuffle(len(board), func(i, j int) {
		board[i], board[j] = board[j], board[i]
	})
	return board
}

// Flip turns the tile at index face up on a copy of the board.
// Out-of-range, matched, and already-visible tiles are no-ops;
// the second return value reports whether anything changed.
// The "at most two open" invariant is the caller's job, not Flip's.
func Flip(board Board, index int) (Board, bool) {
	b := board.clone()
	if index < 0 || index >= len(b) {
		return b, false
	}
	if b[index].Matched || b[index].Visible {
		return b, false
	}
	b[index].Visible = true
	return b, true
}

// OpenIndices returns indices of face-up, unmatched tiles in ascending order.
func OpenIndices(board Board) []int {
	open := []int{}
	for i, t := range board {
		if t.Visible && !t.Matched {
			open = append(open, i)
		}
	}
	return open
}

// ResolvePending settles a pending pair on a copy of the board: with
// exactly two open tiles, equal pair ids lock both as matched and
// unequal ones flip both back down. Any other open count is returned
// unchanged (should not occur under correct engine sequencing).
func ResolvePending(board Board) Board {
	b := board.clone()
	open := OpenIndices(b)
	if len(open) != 2 {
		return b
	}
	i1, i2 := open[0], open[1]
	if b[i1].PairID == b[i2].PairID {
		b[i1].Matched = true
		b[i2].Matched = true
	} else {
		b[i1].Visible = false
		b[i2].Visible = false
	}
	return b
}

// IsComplete reports whether every tile is matched.
func IsComplete(board Board) bool {
	for _, t := range board {
		if !t.Matched {
			return false
		}
	}
	return true
}

// MatchedPairIDs returns the de-duplicated pair ids of matched tiles,
// in board order of first appearance.
func MatchedPairIDs(board Board) []int {
	seen := map[int]bool{}
	ids := []int{}
	for _, t := range board {
		if t.Matched && !seen[t.PairID] {
			seen[t.PairID] = true
			ids = append(ids, t.PairID)
		}
	}
	return ids
}

// RevealAll turns every tile face up on a copy of the board, matched
// or not. Used for the final render after a give-up.
func RevealAll(board Board) Board {
	b := board.clone()
	for i := range b {
		b[i].Visible = true
	}
	return b
}

func (b Board) clone() Board {
	out := make(Board, len(b))
	copy(out, b)
	return out
}
