// Package drilldown builds the per-player and per-practice detail views.
package drilldown

import (
	"sort"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
)

// PlayerPracticeRow summarizes one practice from a single player's point of view.
type PlayerPracticeRow struct {
	Date    string   `json:"date"`
	TeamIDs []string `json:"teamIds"`
	Reps    int      `json:"reps"`
	Scores  int      `json:"scores"`
	Pct     float64  `json:"pct"`
}

// PracticeTeamRow summarizes one team within a practice.
type PracticeTeamRow struct {
	TeamID string   `json:"teamId"`
	Name   string   `json:"name,omitempty"`
	Roster []string `json:"roster"`
	Reps   int      `json:"reps"`
	Scores int      `json:"scores"`
	Pct    float64  `json:"pct"`
}

// PlayerPractices lists every practice the player was rostered in, newest
// first. Counters are summed over all of the player's teams that day.
func PlayerPractices(records []model.PracticeRecord, player string) []PlayerPracticeRow {
	rows := make([]PlayerPracticeRow, 0)
	for _, rec := range records {
		if rec.Malformed() {
			continue
		}
		results := resultIndex(rec)

		var row PlayerPracticeRow
		for _, t := range rec.Teams {
			if !contains(t.Roster, player) {
				continue
			}
			res := results[t.TeamID]
			row.TeamIDs = append(row.TeamIDs, t.TeamID)
			row.Reps += res.Reps
			row.Scores += res.Scores
		}
		if len(row.TeamIDs) == 0 {
			continue
		}
		row.Date = rec.Date
		row.Pct = model.Rate(row.Scores, row.Reps)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows
}

// PracticeTeams lists a practice's teams by team id. Teams without a result
// report zero counters; results without a team are dropped.
func PracticeTeams(rec model.PracticeRecord) []PracticeTeamRow {
	if rec.Malformed() {
		return []PracticeTeamRow{}
	}
	results := resultIndex(rec)

	rows := make([]PracticeTeamRow, 0, len(rec.Teams))
	for _, t := range rec.Teams {
		res := results[t.TeamID]
		rows = append(rows, PracticeTeamRow{
			TeamID: t.TeamID,
			Name:   t.Name,
			Roster: append([]string(nil), t.Roster...),
			Reps:   res.Reps,
			Scores: res.Scores,
			Pct:    model.Rate(res.Scores, res.Reps),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TeamID < rows[j].TeamID
	})
	return rows
}

// PracticeTotals returns the summed reps and scores over a practice's reported teams.
func PracticeTotals(rec model.PracticeRecord) (reps, scores int) {
	for _, row := range PracticeTeams(rec) {
		reps += row.Reps
		scores += row.Scores
	}
	return reps, scores
}

// resultIndex sums results by team id. A team reported twice is credited
// both times, matching aggregation.
func resultIndex(rec model.PracticeRecord) map[string]model.TeamResult {
	idx := make(map[string]model.TeamResult, len(rec.Results))
	for _, res := range rec.Results {
		sum := idx[res.TeamID]
		sum.TeamID = res.TeamID
		sum.Reps += res.Reps
		sum.Scores += res.Scores
		idx[res.TeamID] = sum
	}
	return idx
}

func contains(roster []string, player string) bool {
	for _, p := range roster {
		if p == player {
			return true
		}
	}
	return false
}
