package sampledata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/http/api"
	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	service "github.com/GTTribe/tribe-ratings/internal/app"
	"github.com/GTTribe/tribe-ratings/internal/domain/model"
	"github.com/GTTribe/tribe-ratings/internal/domain/types"
	"github.com/GTTribe/tribe-ratings/internal/sampledata"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func defaultConfig() *sampledata.Config {
	return &sampledata.Config{
		Practices:        sampledata.DefaultPractices,
		Players:          sampledata.DefaultPlayers,
		TeamsPerPractice: sampledata.DefaultTeamsPerPractice,
		StartDate:        sampledata.DefaultStartDate,
		Seed:             7,
		Timeout:          5 * time.Second,
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		cfg := defaultConfig()

		Convey("The same seed should produce the same season", func() {
			a, err := sampledata.Generate(cfg)
			So(err, ShouldBeNil)
			b, err := sampledata.Generate(cfg)
			So(err, ShouldBeNil)
			So(a, ShouldResemble, b)
		})

		Convey("Every practice should be well formed", func() {
			recs, err := sampledata.Generate(cfg)
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, cfg.Practices)
			So(recs[0].Record.Date, ShouldEqual, cfg.StartDate)

			prev := ""
			for _, nr := range recs {
				rec := nr.Record
				So(nr.Name, ShouldEqual, "practices/"+rec.Date+".json")
				So(rec.Date > prev, ShouldBeTrue)
				prev = rec.Date
				So(rec.Malformed(), ShouldBeFalse)
				So(rec.Teams, ShouldHaveLength, cfg.TeamsPerPractice)
				So(rec.Results, ShouldHaveLength, cfg.TeamsPerPractice)

				seen := map[string]bool{}
				for i, team := range rec.Teams {
					So(team.Roster, ShouldNotBeEmpty)
					So(rec.Results[i].TeamID, ShouldEqual, team.TeamID)
					So(rec.Results[i].Reps, ShouldBeBetweenOrEqual, 10, 25)
					So(rec.Results[i].Scores, ShouldBeBetweenOrEqual, 0, rec.Results[i].Reps)
					for _, p := range team.Roster {
						So(seen[p], ShouldBeFalse)
						seen[p] = true
					}
				}
			}
		})

		Convey("A different seed should produce a different season", func() {
			a, _ := sampledata.Generate(cfg)
			other := defaultConfig()
			other.Seed = 8
			b, _ := sampledata.Generate(other)
			So(a, ShouldNotResemble, b)
		})
	})

	Convey("Given invalid configurations", t, func() {
		cases := []func(*sampledata.Config){
			func(c *sampledata.Config) { c.Practices = 0 },
			func(c *sampledata.Config) { c.TeamsPerPractice = 0 },
			func(c *sampledata.Config) { c.Players = 2 },
			func(c *sampledata.Config) { c.StartDate = "next tuesday" },
		}
		for _, mutate := range cases {
			cfg := defaultConfig()
			mutate(cfg)
			_, err := sampledata.Generate(cfg)
			So(errors.Is(err, sampledata.ErrInvalidConfig), ShouldBeTrue)
		}
	})
}

func TestExpectedTotals(t *testing.T) {
	Convey("Given hand-written practices", t, func() {
		recs := []sampledata.NamedRecord{
			{Name: "a.json", Record: model.PracticeRecord{
				Date: "2025-09-03",
				Teams: []model.Team{
					{TeamID: "A", Roster: []string{"X", "Y"}},
					{TeamID: "B", Roster: []string{"Z"}},
				},
				Results: []model.TeamResult{
					{TeamID: "A", Reps: 18, Scores: 11},
					{TeamID: "B", Reps: 10, Scores: 5},
				},
			}},
			{Name: "b.json", Record: model.PracticeRecord{
				Date:    "2025-09-05",
				Teams:   []model.Team{{TeamID: "A", Roster: []string{"X", "W"}}},
				Results: []model.TeamResult{},
			}},
		}

		totals := sampledata.ExpectedTotals(recs)

		So(totals["X"], ShouldResemble, sampledata.Totals{Scored: 11, Reps: 18})
		So(totals["Z"], ShouldResemble, sampledata.Totals{Scored: 5, Reps: 10})

		Convey("Players on unreported teams should still be listed with zero totals", func() {
			w, ok := totals["W"]
			So(ok, ShouldBeTrue)
			So(w, ShouldResemble, sampledata.Totals{})
		})
	})
}

func TestWriteSeason(t *testing.T) {
	Convey("Given a generated season", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		recs, err := sampledata.Generate(defaultConfig())
		So(err, ShouldBeNil)

		manifestPath, err := sampledata.WriteSeason(ctx, dir, "", recs)
		So(err, ShouldBeNil)
		So(manifestPath, ShouldEqual, filepath.Join(dir, records.DefaultManifest))

		Convey("The record store should read it back unchanged", func() {
			store := records.NewFSStore(dir, "")
			names, err := store.Manifest(ctx)
			So(err, ShouldBeNil)
			So(names, ShouldHaveLength, len(recs))

			for i, name := range names {
				So(name, ShouldEqual, recs[i].Name)
				rec, err := store.Record(ctx, name)
				So(err, ShouldBeNil)
				So(rec, ShouldResemble, recs[i].Record)
			}
		})

		Convey("An empty season should be refused", func() {
			_, err := sampledata.WriteSeason(ctx, t.TempDir(), "", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("A canceled context should stop writing", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := sampledata.WriteSeason(cctx, t.TempDir(), "", recs)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestVerifyLeaderboard(t *testing.T) {
	Convey("Given expected totals", t, func() {
		want := map[string]sampledata.Totals{
			"X": {Scored: 11, Reps: 18},
			"Z": {Scored: 5, Reps: 10},
		}
		board := []types.Entry{
			{Rank: 1, Player: "X", Scored: 11, Reps: 18, Rating: 1011},
			{Rank: 2, Player: "Z", Scored: 5, Reps: 10, Rating: 989},
		}

		Convey("A matching board should pass", func() {
			n, err := sampledata.VerifyLeaderboard(board, want)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})

		Convey("A missing player should fail", func() {
			_, err := sampledata.VerifyLeaderboard(board[:1], want)
			So(errors.Is(err, sampledata.ErrVerification), ShouldBeTrue)
		})

		Convey("Wrong totals should fail", func() {
			board[1].Reps = 12
			_, err := sampledata.VerifyLeaderboard(board, want)
			So(errors.Is(err, sampledata.ErrVerification), ShouldBeTrue)
		})

		Convey("Out of order ratings should fail", func() {
			board[1].Rating = 1200
			_, err := sampledata.VerifyLeaderboard(board, want)
			So(errors.Is(err, sampledata.ErrVerification), ShouldBeTrue)
		})

		Convey("Bad ranks should fail", func() {
			board[1].Rank = 3
			_, err := sampledata.VerifyLeaderboard(board, want)
			So(errors.Is(err, sampledata.ErrVerification), ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a ratings service watching an empty directory", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dir := t.TempDir()
		svc := service.New(
			service.WithLogger(logger.Nop()),
			service.WithRecordStore(records.NewFSStore(dir, "")),
			service.WithClock(func() time.Time { return time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC) }),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Run should write the season, reload and verify the board", func() {
			cfg := defaultConfig()
			cfg.OutDir = dir
			cfg.BaseURL = srv.URL + "/"
			cfg.Reload = true

			stats, err := sampledata.Run(ctx, cfg)
			So(err, ShouldBeNil)
			So(stats.PracticesWritten, ShouldEqual, cfg.Practices)
			So(stats.LeaderboardRows, ShouldEqual, stats.PlayersGenerated)
			So(stats.EntriesVerified, ShouldEqual, stats.PlayersGenerated)
			So(stats.RunID, ShouldNotBeEmpty)
		})

		Convey("Verification without a reload should fail against the stale snapshot", func() {
			cfg := defaultConfig()
			cfg.OutDir = dir
			cfg.BaseURL = srv.URL

			_, err := sampledata.Run(ctx, cfg)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a service that is down", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		cfg := defaultConfig()
		cfg.OutDir = t.TempDir()
		cfg.BaseURL = srv.URL

		_, err := sampledata.Run(context.Background(), cfg)
		So(errors.Is(err, sampledata.ErrService), ShouldBeTrue)
		So(strings.Contains(err.Error(), "/readyz"), ShouldBeTrue)
	})
}
