// Package model contains domain models passed between layers.
package model

// PracticeRecord is one hand-entered practice document.
// Fields mirror the on-disk JSON shape exactly.
type PracticeRecord struct {
	Date    string       `json:"date"`    // calendar date, YYYY-MM-DD
	Teams   []Team       `json:"teams"`   // nil when the key is missing
	Results []TeamResult `json:"results"` // nil when the key is missing
}

// Malformed reports whether the record lacks teams or results.
func (r PracticeRecord) Malformed() bool {
	return r.Teams == nil || r.Results == nil
}

// Team is a roster fielded for one practice.
type Team struct {
	TeamID string   `json:"team_id"`
	Name   string   `json:"name,omitempty"`
	Roster []string `json:"roster"`
}

// TeamResult carries the team-level counters for one practice.
type TeamResult struct {
	TeamID string `json:"team_id"`
	Reps   int    `json:"reps"`
	Scores int    `json:"scores"`
}

// PlayerPracticeEntry is one (player, team result) observation.
type PlayerPracticeEntry struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// PlayerAggregate holds cumulative counters and the dated history for one player.
type PlayerAggregate struct {
	TotalScored int                   `json:"totalScored"`
	TotalReps   int                   `json:"totalReps"`
	History     []PlayerPracticeEntry `json:"history"`
}

// LeaderboardRow is one ranked player.
type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	Player      string  `json:"player"`
	TotalScored int     `json:"scored"`
	TotalReps   int     `json:"reps"`
	Pct         float64 `json:"pct"`
	Rating      float64 `json:"rating"`
}

// Rate returns scores/reps, or 0 when no reps were recorded.
func Rate(scores, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	return float64(scores) / float64(reps)
}
