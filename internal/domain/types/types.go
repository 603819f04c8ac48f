// Package types contains the read shapes served to presentation clients.
package types

import "github.com/GTTribe/tribe-ratings/internal/domain/drilldown"

// Entry represents a leaderboard entry
type Entry struct {
	Rank       int     `json:"rank"`
	Player     string  `json:"player"`
	Scored     int     `json:"scored"`
	Reps       int     `json:"reps"`
	Pct        float64 `json:"pct"`
	PctDisplay string  `json:"pct_display"`
	Rating     float64 `json:"rating"`
	Medal      string  `json:"medal,omitempty"`
}

// PlayerDetail is a leaderboard entry plus the player's practice history.
type PlayerDetail struct {
	Entry     Entry                         `json:"entry"`
	Practices []drilldown.PlayerPracticeRow `json:"practices"`
}

// PracticeSummary lists one practice in the index view.
type PracticeSummary struct {
	Date    string  `json:"date"`
	Teams   int     `json:"teams"`
	Players int     `json:"players"`
	Reps    int     `json:"reps"`
	Scores  int     `json:"scores"`
	Pct     float64 `json:"pct"`
}

// PracticeDetail lists the teams of one practice.
type PracticeDetail struct {
	Date  string                      `json:"date"`
	Teams []drilldown.PracticeTeamRow `json:"teams"`
}
