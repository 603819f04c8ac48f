package rating_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func TestCompute(t *testing.T) {
	Convey("Given the default engine anchored on 2025-09-03", t, func() {
		params := rating.NewParams(rating.WithReferenceDate(day("2025-09-03")))

		Convey("When the history is empty", func() {
			Convey("Then the rating should equal the initial rating", func() {
				So(rating.Compute(nil, params), ShouldEqual, rating.DefaultInitial)
				custom := rating.NewParams(rating.WithInitial(1234))
				So(rating.Compute([]model.PlayerPracticeEntry{}, custom), ShouldEqual, 1234)
			})
		})

		Convey("When a single same-day practice is folded", func() {
			rate := model.Rate(11, 18)
			got := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: rate}}, params)

			Convey("Then it should move by K·(rate − E(initial))", func() {
				want := 1000 + 200*(rate-rating.Expected(1000, params))
				So(got, ShouldAlmostEqual, want, tolerance)
				So(got, ShouldAlmostEqual, 1011.2222, 0.0001)
			})
		})

		Convey("When every practice is scored at the neutral rate", func() {
			history := make([]model.PlayerPracticeEntry, 0, 40)
			for i := 0; i < 40; i++ {
				history = append(history, model.PlayerPracticeEntry{
					Date: day("2025-06-01").AddDate(0, 0, i).Format(time.DateOnly),
					Rate: rating.DefaultNeutral,
				})
			}

			Convey("Then the rating should stay at the anchor", func() {
				for n := 1; n <= len(history); n++ {
					So(rating.Compute(history[:n], params), ShouldAlmostEqual, rating.DefaultMu, 1e-6)
				}
			})
		})

		Convey("When the history is permuted", func() {
			history := []model.PlayerPracticeEntry{
				{Date: "2025-08-01", Rate: 0.9},
				{Date: "2025-08-01", Rate: 0.1},
				{Date: "2025-08-10", Rate: 0.4},
				{Date: "2025-07-15", Rate: 0.7},
				{Date: "2025-09-01", Rate: 0.0},
				{Date: "2025-08-20", Rate: 1.0},
			}
			want := rating.Compute(history, params)
			rng := rand.New(rand.NewSource(7))

			Convey("Then the rating should not change", func() {
				for i := 0; i < 25; i++ {
					shuffled := append([]model.PlayerPracticeEntry(nil), history...)
					rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
					So(rating.Compute(shuffled, params), ShouldEqual, want)
				}
			})
		})

		Convey("When two identical practices differ only in age", func() {
			recent := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-01", Rate: 0.9}}, params)
			stale := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-06-01", Rate: 0.9}}, params)

			Convey("Then the older one should move the rating less", func() {
				So(math.Abs(stale-rating.DefaultInitial), ShouldBeLessThan, math.Abs(recent-rating.DefaultInitial))
			})

			Convey("And one half-life should halve the movement", func() {
				fresh := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0.9}}, params)
				halved := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-08-13", Rate: 0.9}}, params)
				So(halved-rating.DefaultInitial, ShouldAlmostEqual, (fresh-rating.DefaultInitial)/2, tolerance)
			})

			Convey("And movement should shrink monotonically with age", func() {
				prev := math.Inf(1)
				for age := 0; age <= 120; age += 5 {
					d := day("2025-09-03").AddDate(0, 0, -age).Format(time.DateOnly)
					delta := math.Abs(rating.Compute([]model.PlayerPracticeEntry{{Date: d, Rate: 0.2}}, params) - rating.DefaultInitial)
					So(delta, ShouldBeLessThan, prev)
					prev = delta
				}
			})
		})

		Convey("When decay is disabled", func() {
			flat := rating.NewParams(rating.WithReferenceDate(day("2025-09-03")), rating.WithHalfLifeDays(0))
			a := rating.Compute([]model.PlayerPracticeEntry{{Date: "2024-01-01", Rate: 0.9}}, flat)
			b := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0.9}}, flat)

			Convey("Then age should not matter", func() {
				So(a, ShouldEqual, b)
			})
		})

		Convey("When an entry is dated after the reference date", func() {
			future := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-12-25", Rate: 0.9}}, params)
			today := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0.9}}, params)

			Convey("Then its age should be treated as zero", func() {
				So(future, ShouldEqual, today)
			})
		})

		Convey("When the history contains unusable entries", func() {
			clean := []model.PlayerPracticeEntry{{Date: "2025-09-01", Rate: 0.7}}
			dirty := append([]model.PlayerPracticeEntry{
				{Date: "2025-09-02", Rate: math.NaN()},
				{Date: "2025-09-02", Rate: math.Inf(1)},
				{Date: "not-a-date", Rate: 0.3},
				{Date: "", Rate: 0.3},
			}, clean...)

			Convey("Then they should be skipped without failing", func() {
				So(rating.Compute(dirty, params), ShouldEqual, rating.Compute(clean, params))
			})

			Convey("And a history of only unusable entries should return the initial rating", func() {
				So(rating.Compute(dirty[:4], params), ShouldEqual, rating.DefaultInitial)
			})
		})

		Convey("When rates fall outside [0,1]", func() {
			over := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 1.7}}, params)
			one := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 1}}, params)
			under := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: -0.4}}, params)
			zero := rating.Compute([]model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0}}, params)

			Convey("Then they should be clamped", func() {
				So(over, ShouldEqual, one)
				So(under, ShouldEqual, zero)
			})
		})

		Convey("When the parameters are not finite", func() {
			history := []model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0.9}}
			nanStep := rating.NewParams(rating.WithReferenceDate(day("2025-09-03")), rating.WithStep(math.NaN()))
			infMu := rating.NewParams(rating.WithReferenceDate(day("2025-09-03")), rating.WithMu(math.Inf(1)), rating.WithStep(math.Inf(1)))
			nanInitial := rating.NewParams(rating.WithInitial(math.NaN()))

			Convey("Then the rating should fall back to the initial rating", func() {
				So(rating.Compute(history, nanStep), ShouldEqual, rating.DefaultInitial)
				So(rating.Compute(history, infMu), ShouldEqual, rating.DefaultInitial)
				So(rating.Compute(nil, nanInitial), ShouldEqual, rating.DefaultInitial)
				So(math.IsNaN(rating.Compute(history, nanInitial)), ShouldBeFalse)
			})
		})
	})
}

func TestExpected(t *testing.T) {
	Convey("Given the calibration bias", t, func() {
		Convey("A player at the anchor should be expected to score at the neutral rate", func() {
			for _, nu := range []float64{0.1, 0.5, 0.555, 0.9} {
				p := rating.NewParams(rating.WithNeutral(nu))
				So(rating.Expected(p.Mu, p), ShouldAlmostEqual, nu, 1e-12)
			}
		})

		Convey("A neutral rate of exactly 0 or 1 should stay finite", func() {
			for _, nu := range []float64{0, 1, -3, 4} {
				p := rating.NewParams(rating.WithNeutral(nu))
				So(math.IsInf(p.Bias(), 0), ShouldBeFalse)
				So(math.IsNaN(rating.Expected(1000, p)), ShouldBeFalse)
			}
		})

		Convey("Expected rate should rise with rating", func() {
			p := rating.DefaultParams()
			So(rating.Expected(1500, p), ShouldBeGreaterThan, rating.Expected(1000, p))
			So(rating.Expected(500, p), ShouldBeLessThan, rating.Expected(1000, p))
		})

		Convey("A non-positive width should fall back to the default", func() {
			p := rating.DefaultParams()
			p.Width = 0
			So(rating.Expected(1500, p), ShouldEqual, rating.Expected(1500, rating.DefaultParams()))
		})
	})
}

func TestAgeDays(t *testing.T) {
	Convey("Given calendar dates", t, func() {
		ref := time.Date(2025, 9, 3, 23, 59, 0, 0, time.UTC)

		So(rating.AgeDays(ref, day("2025-09-03")), ShouldEqual, 0)
		So(rating.AgeDays(ref, day("2025-09-02")), ShouldEqual, 1)
		So(rating.AgeDays(ref, day("2025-08-13")), ShouldEqual, 21)
		So(rating.AgeDays(ref, day("2025-09-10")), ShouldEqual, 0)
	})
}

func TestParseDate(t *testing.T) {
	Convey("Given date strings", t, func() {
		d, ok := rating.ParseDate("2025-09-03")
		So(ok, ShouldBeTrue)
		So(d.Equal(day("2025-09-03")), ShouldBeTrue)

		d, ok = rating.ParseDate("2025-09-03T18:30:00-07:00")
		So(ok, ShouldBeTrue)
		So(d.Equal(day("2025-09-04")), ShouldBeTrue)

		_, ok = rating.ParseDate("09/03/2025")
		So(ok, ShouldBeFalse)
	})
}
