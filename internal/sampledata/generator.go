package sampledata

import (
	"fmt"
	"math/rand/v2"
	"path"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
)

// Scoring probability ranges per performer tier.
const (
	avgPerformerMin    = 0.45
	avgPerformerRange  = 0.15
	highPerformerMin   = 0.60
	highPerformerRange = 0.15
	lowPerformerMin    = 0.25
	lowPerformerRange  = 0.20
	elitePerformerMin  = 0.75
	elitePerformerMax  = 0.90
)

// Constants for performance tier cases.
const (
	caseAveragePerformer = iota
	caseHighPerformer
	caseLowPerformer
	caseElitePerformer
	tierCount
)

type player struct {
	name  string
	skill float64
}

// Generate builds a season from cfg. The same seed always yields the same season.
func Generate(cfg *Config) ([]NamedRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start, _ := rating.ParseDate(cfg.StartDate)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	pool := make([]player, cfg.Players)
	for i := range pool {
		pool[i] = player{
			name:  fmt.Sprintf("player-%02d", i+1),
			skill: skillFor(rng),
		}
	}

	out := make([]NamedRecord, 0, cfg.Practices)
	day := start
	for i := 0; i < cfg.Practices; i++ {
		date := day.Format(time.DateOnly)
		out = append(out, NamedRecord{
			Name:   path.Join(recordDir, date+".json"),
			Record: generatePractice(rng, date, pool, cfg.TeamsPerPractice),
		})
		gap := shortGapDays
		if i%2 == 1 {
			gap = longGapDays
		}
		day = day.AddDate(0, 0, gap)
	}
	return out, nil
}

// skillFor draws a scoring probability from one of the performer tiers.
func skillFor(rng *rand.Rand) float64 {
	switch rng.IntN(tierCount) {
	case caseAveragePerformer:
		return avgPerformerMin + rng.Float64()*avgPerformerRange
	case caseHighPerformer:
		return highPerformerMin + rng.Float64()*highPerformerRange
	case caseLowPerformer:
		return lowPerformerMin + rng.Float64()*lowPerformerRange
	default:
		return elitePerformerMin + rng.Float64()*(elitePerformerMax-elitePerformerMin)
	}
}

func generatePractice(rng *rand.Rand, date string, pool []player, teams int) model.PracticeRecord {
	present := make([]player, 0, len(pool))
	for _, p := range pool {
		if rng.Float64() < attendance {
			present = append(present, p)
		}
	}
	// every team needs at least one player
	if len(present) < teams {
		present = append(present[:0], pool...)
	}
	rng.Shuffle(len(present), func(i, j int) { present[i], present[j] = present[j], present[i] })

	rec := model.PracticeRecord{
		Date:    date,
		Teams:   make([]model.Team, teams),
		Results: make([]model.TeamResult, teams),
	}
	skill := make([]float64, teams)
	for t := range rec.Teams {
		rec.Teams[t] = model.Team{
			TeamID: string(rune('A' + t%26)) + teamSuffix(t),
			Roster: []string{},
		}
	}
	for i, p := range present {
		t := i % teams
		rec.Teams[t].Roster = append(rec.Teams[t].Roster, p.name)
		skill[t] += p.skill
	}

	for t, team := range rec.Teams {
		p := skill[t] / float64(len(team.Roster))
		reps := minReps + rng.IntN(repsRange)
		scores := 0
		for r := 0; r < reps; r++ {
			if rng.Float64() < p {
				scores++
			}
		}
		rec.Results[t] = model.TeamResult{TeamID: team.TeamID, Reps: reps, Scores: scores}
	}
	return rec
}

func teamSuffix(t int) string {
	if t < 26 {
		return ""
	}
	return fmt.Sprint(t / 26)
}

// ExpectedTotals sums each player's scored and reps across a season.
func ExpectedTotals(recs []NamedRecord) map[string]Totals {
	totals := make(map[string]Totals)
	for _, nr := range recs {
		results := make(map[string]model.TeamResult, len(nr.Record.Results))
		for _, r := range nr.Record.Results {
			results[r.TeamID] = r
		}
		for _, team := range nr.Record.Teams {
			res, ok := results[team.TeamID]
			for _, name := range team.Roster {
				t := totals[name]
				if ok {
					t.Scored += res.Scores
					t.Reps += res.Reps
				}
				totals[name] = t
			}
		}
	}
	return totals
}
