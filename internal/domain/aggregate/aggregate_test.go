package aggregate_test

import (
	"math/rand"
	"testing"

	"github.com/GTTribe/tribe-ratings/internal/domain/aggregate"
	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func practice(date string, teams []model.Team, results []model.TeamResult) model.PracticeRecord {
	return model.PracticeRecord{Date: date, Teams: teams, Results: results}
}

func season() []model.PracticeRecord {
	return []model.PracticeRecord{
		practice("2025-09-03",
			[]model.Team{{TeamID: "A", Roster: []string{"X", "Y"}}, {TeamID: "B", Roster: []string{"Z"}}},
			[]model.TeamResult{{TeamID: "A", Reps: 18, Scores: 11}, {TeamID: "B", Reps: 10, Scores: 5}}),
		practice("2025-09-10",
			[]model.Team{{TeamID: "A", Roster: []string{"X", "Z"}}, {TeamID: "B", Roster: []string{"Y"}}},
			[]model.TeamResult{{TeamID: "B", Reps: 12, Scores: 4}, {TeamID: "A", Reps: 12, Scores: 8}}),
		practice("2025-08-27",
			[]model.Team{{TeamID: "A", Roster: []string{"Y", "Z"}}},
			[]model.TeamResult{{TeamID: "A", Reps: 6, Scores: 6}}),
	}
}

func TestAggregate(t *testing.T) {
	Convey("Given a single practice", t, func() {
		recs := season()[:1]

		Convey("When aggregating", func() {
			aggs := aggregate.Aggregate(recs)

			Convey("Then every rostered player should be credited with their team's counters", func() {
				So(aggs, ShouldHaveLength, 3)
				So(aggs["X"].TotalScored, ShouldEqual, 11)
				So(aggs["X"].TotalReps, ShouldEqual, 18)
				So(aggs["Y"].TotalScored, ShouldEqual, 11)
				So(aggs["Y"].TotalReps, ShouldEqual, 18)
				So(aggs["Z"].TotalScored, ShouldEqual, 5)
				So(aggs["Z"].TotalReps, ShouldEqual, 10)
			})

			Convey("And each player should get one dated entry at the team rate", func() {
				So(aggs["X"].History, ShouldHaveLength, 1)
				So(aggs["X"].History[0].Date, ShouldEqual, "2025-09-03")
				So(aggs["X"].History[0].Rate, ShouldAlmostEqual, 11.0/18.0, 1e-12)
				So(aggs["Z"].History[0].Rate, ShouldEqual, 0.5)
			})
		})
	})

	Convey("Given several practices", t, func() {
		recs := season()

		Convey("When aggregating", func() {
			aggs := aggregate.Aggregate(recs)

			Convey("Then totals should accumulate across practices", func() {
				So(aggs["X"].TotalScored, ShouldEqual, 19)
				So(aggs["X"].TotalReps, ShouldEqual, 30)
				So(aggs["Y"].TotalScored, ShouldEqual, 21)
				So(aggs["Y"].TotalReps, ShouldEqual, 36)
			})

			Convey("And histories should be ordered by date", func() {
				h := aggs["Y"].History
				So(h, ShouldHaveLength, 3)
				So(h[0].Date, ShouldEqual, "2025-08-27")
				So(h[1].Date, ShouldEqual, "2025-09-03")
				So(h[2].Date, ShouldEqual, "2025-09-10")
				So(h[2].Rate, ShouldAlmostEqual, 4.0/12.0, 1e-12)
			})
		})

		Convey("When the records are fed in any order", func() {
			want := aggregate.Aggregate(recs)
			rng := rand.New(rand.NewSource(3))

			Convey("Then the aggregates should be identical", func() {
				for i := 0; i < 10; i++ {
					shuffled := append([]model.PracticeRecord(nil), recs...)
					rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
					So(aggregate.Aggregate(shuffled), ShouldResemble, want)
				}
			})
		})
	})

	Convey("Given edge-case practices", t, func() {
		Convey("When a result names a team that does not exist", func() {
			aggs := aggregate.Aggregate([]model.PracticeRecord{
				practice("2025-09-03",
					[]model.Team{{TeamID: "A", Roster: []string{"X"}}},
					[]model.TeamResult{{TeamID: "A", Reps: 4, Scores: 2}, {TeamID: "ghost", Reps: 9, Scores: 9}}),
			})

			Convey("Then it should attribute nothing", func() {
				So(aggs, ShouldHaveLength, 1)
				So(aggs["X"].TotalReps, ShouldEqual, 4)
				So(aggs["X"].History, ShouldHaveLength, 1)
			})
		})

		Convey("When a team has no matching result", func() {
			recs := []model.PracticeRecord{
				practice("2025-09-03",
					[]model.Team{{TeamID: "A", Roster: []string{"X"}}, {TeamID: "B", Roster: []string{"Q", "R"}}},
					[]model.TeamResult{{TeamID: "A", Reps: 4, Scores: 2}}),
			}
			aggs := aggregate.Aggregate(recs)

			Convey("Then its roster should get zero-rep entries with a zero rate", func() {
				So(aggs["Q"].TotalReps, ShouldEqual, 0)
				So(aggs["Q"].TotalScored, ShouldEqual, 0)
				So(aggs["Q"].History, ShouldResemble, []model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0}})
				So(aggs["R"].History, ShouldHaveLength, 1)
			})

			Convey("And disabling unreported teams should leave them out", func() {
				off := aggregate.Aggregate(recs, aggregate.WithUnreportedTeams(false))
				So(off, ShouldHaveLength, 1)
				So(off, ShouldContainKey, "X")
			})
		})

		Convey("When a team reports zero reps", func() {
			aggs := aggregate.Aggregate([]model.PracticeRecord{
				practice("2025-09-03",
					[]model.Team{{TeamID: "A", Roster: []string{"X"}}},
					[]model.TeamResult{{TeamID: "A", Reps: 0, Scores: 0}}),
			})

			Convey("Then an entry should still be produced", func() {
				So(aggs["X"].History, ShouldResemble, []model.PlayerPracticeEntry{{Date: "2025-09-03", Rate: 0}})
			})
		})

		Convey("When a player is rostered on two teams in one practice", func() {
			aggs := aggregate.Aggregate([]model.PracticeRecord{
				practice("2025-09-03",
					[]model.Team{{TeamID: "A", Roster: []string{"X"}}, {TeamID: "B", Roster: []string{"X"}}},
					[]model.TeamResult{{TeamID: "A", Reps: 10, Scores: 8}, {TeamID: "B", Reps: 10, Scores: 2}}),
			})

			Convey("Then both entries should be kept separately", func() {
				So(aggs["X"].TotalReps, ShouldEqual, 20)
				So(aggs["X"].TotalScored, ShouldEqual, 10)
				So(aggs["X"].History, ShouldResemble, []model.PlayerPracticeEntry{
					{Date: "2025-09-03", Rate: 0.2},
					{Date: "2025-09-03", Rate: 0.8},
				})
			})
		})

		Convey("When a record is missing teams or results", func() {
			aggs := aggregate.Aggregate([]model.PracticeRecord{
				{Date: "2025-09-03", Results: []model.TeamResult{{TeamID: "A", Reps: 1, Scores: 1}}},
				{Date: "2025-09-04", Teams: []model.Team{{TeamID: "A", Roster: []string{"X"}}}},
			})

			Convey("Then it should be skipped silently", func() {
				So(aggs, ShouldBeEmpty)
			})
		})

		Convey("When there are no records", func() {
			So(aggregate.Aggregate(nil), ShouldBeEmpty)
		})
	})
}
