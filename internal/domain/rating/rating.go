// Package rating turns a player's dated practice history into a skill estimate
// using a time-decayed logistic update.
package rating

import (
	"math"
	"sort"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
)

// Default engine parameters.
const (
	DefaultInitial      = 1000.0
	DefaultStep         = 200.0
	DefaultHalfLifeDays = 21.0
	DefaultMu           = 1000.0
	DefaultWidth        = 10000.0
	DefaultNeutral      = 0.555

	neutralEpsilon = 1e-6
	hoursPerDay    = 24
)

// Params configures the engine. The zero ReferenceDate means "today".
type Params struct {
	Initial       float64
	Step          float64
	HalfLifeDays  float64
	Mu            float64
	Width         float64
	Neutral       float64
	ReferenceDate time.Time
}

// Option applies a configuration option to Params.
type Option func(*Params)

// WithInitial sets the starting rating.
func WithInitial(v float64) Option {
	return func(p *Params) { p.Initial = v }
}

// WithStep sets the update step K.
func WithStep(v float64) Option {
	return func(p *Params) { p.Step = v }
}

// WithHalfLifeDays sets the decay half-life. Zero or negative disables decay.
func WithHalfLifeDays(v float64) Option {
	return func(p *Params) { p.HalfLifeDays = v }
}

// WithMu sets the anchor rating.
func WithMu(v float64) Option {
	return func(p *Params) { p.Mu = v }
}

// WithWidth sets the logistic width. Non-positive values are ignored.
func WithWidth(v float64) Option {
	return func(p *Params) {
		if v > 0 {
			p.Width = v
		}
	}
}

// WithNeutral sets the scoring rate that maps to the anchor rating.
func WithNeutral(v float64) Option {
	return func(p *Params) { p.Neutral = v }
}

// WithReferenceDate sets the date ages are measured from.
func WithReferenceDate(t time.Time) Option {
	return func(p *Params) { p.ReferenceDate = t }
}

// DefaultParams returns the stock engine configuration.
func DefaultParams() Params {
	return Params{
		Initial:      DefaultInitial,
		Step:         DefaultStep,
		HalfLifeDays: DefaultHalfLifeDays,
		Mu:           DefaultMu,
		Width:        DefaultWidth,
		Neutral:      DefaultNeutral,
	}
}

// NewParams builds Params from the defaults plus options.
func NewParams(opts ...Option) Params {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Bias returns log10(ν/(1−ν)) with ν clamped away from 0 and 1.
func (p Params) Bias() float64 {
	nu := p.Neutral
	if math.IsNaN(nu) {
		nu = DefaultNeutral
	}
	nu = math.Max(neutralEpsilon, math.Min(1-neutralEpsilon, nu))
	return math.Log10(nu / (1 - nu))
}

func (p Params) width() float64 {
	if p.Width > 0 && !math.IsInf(p.Width, 0) {
		return p.Width
	}
	return DefaultWidth
}

func (p Params) initial() float64 {
	if math.IsNaN(p.Initial) || math.IsInf(p.Initial, 0) {
		return DefaultInitial
	}
	return p.Initial
}

// Expected returns the scoring rate the model predicts at rating r.
func Expected(r float64, p Params) float64 {
	return expected(r, p, p.Bias())
}

func expected(r float64, p Params, bias float64) float64 {
	return 1 / (1 + math.Pow(10, -((r-p.Mu)/p.width()+bias)))
}

// Weight returns the decay weight for an entry ageDays old.
func Weight(ageDays int, p Params) float64 {
	if p.HalfLifeDays <= 0 {
		return 1
	}
	return math.Pow(0.5, float64(ageDays)/p.HalfLifeDays)
}

// Compute folds history in date order and returns the final rating.
// Input order never affects the result.
func Compute(history []model.PlayerPracticeEntry, p Params) float64 {
	entries := sanitize(history)
	r := p.initial()
	if len(entries) == 0 {
		return r
	}

	ref := p.ReferenceDate
	if ref.IsZero() {
		ref = time.Now()
	}
	ref = calendarDate(ref)
	bias := p.Bias()

	for _, e := range entries {
		w := Weight(AgeDays(ref, e.date), p)
		r += p.Step * w * (e.rate - expected(r, p, bias))
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return p.initial()
	}
	return r
}

// AgeDays returns whole days between the entry date and ref, never negative.
func AgeDays(ref, date time.Time) int {
	d := calendarDate(ref).Sub(calendarDate(date))
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / hoursPerDay))
}

type entry struct {
	date time.Time
	rate float64
}

// sanitize drops unusable entries, clamps rates, and sorts by (date, rate).
func sanitize(history []model.PlayerPracticeEntry) []entry {
	out := make([]entry, 0, len(history))
	for _, h := range history {
		if math.IsNaN(h.Rate) || math.IsInf(h.Rate, 0) {
			continue
		}
		d, ok := ParseDate(h.Date)
		if !ok {
			continue
		}
		out = append(out, entry{date: d, rate: math.Max(0, math.Min(1, h.Rate))})
	}
	// Same-day entries are ordered by rate so permutations fold identically.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].date.Equal(out[j].date) {
			return out[i].date.Before(out[j].date)
		}
		return out[i].rate < out[j].rate
	})
	return out
}

// ParseDate reads a YYYY-MM-DD date, falling back to RFC 3339, and returns
// the UTC calendar date.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return calendarDate(t), true
	}
	return time.Time{}, false
}

func calendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
