package sampledata

import (
	"fmt"

	"github.com/GTTribe/tribe-ratings/internal/domain/types"
)

// VerifyLeaderboard checks a served leaderboard against the totals a season
// should produce. It returns how many entries were checked.
func VerifyLeaderboard(board []types.Entry, want map[string]Totals) (int, error) {
	if len(board) != len(want) {
		return 0, fmt.Errorf("%w: %d rows, want %d players", ErrVerification, len(board), len(want))
	}

	seen := make(map[string]bool, len(board))
	for i, e := range board {
		if e.Rank != i+1 {
			return i, fmt.Errorf("%w: row %d has rank %d", ErrVerification, i, e.Rank)
		}
		if i > 0 && e.Rating > board[i-1].Rating {
			return i, fmt.Errorf("%w: %s rated above %s", ErrVerification, e.Player, board[i-1].Player)
		}
		if seen[e.Player] {
			return i, fmt.Errorf("%w: %s listed twice", ErrVerification, e.Player)
		}
		seen[e.Player] = true

		t, ok := want[e.Player]
		if !ok {
			return i, fmt.Errorf("%w: unexpected player %s", ErrVerification, e.Player)
		}
		if e.Scored != t.Scored || e.Reps != t.Reps {
			return i, fmt.Errorf("%w: %s has %d/%d, want %d/%d",
				ErrVerification, e.Player, e.Scored, e.Reps, t.Scored, t.Reps)
		}
	}
	return len(board), nil
}
