package records_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	. "github.com/smartystreets/goconvey/convey"
)

func newDataServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /data/manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["2025-09-03.json"]`))
	})
	mux.HandleFunc("GET /data/2025-09-03.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(practiceJSON))
	})
	mux.HandleFunc("GET /data/garbage.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	mux.HandleFunc("GET /data/slow.json", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	return httptest.NewServer(mux)
}

func TestHTTPStore(t *testing.T) {
	Convey("Given an HTTP data source", t, func() {
		srv := newDataServer()
		defer srv.Close()
		ctx := context.Background()

		store, err := records.NewHTTPStore(srv.URL+"/data", "", records.WithHTTPClient(srv.Client()))
		So(err, ShouldBeNil)

		Convey("Manifest should be fetched relative to the base", func() {
			names, err := store.Manifest(ctx)
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"2025-09-03.json"})
		})

		Convey("Record should decode a practice", func() {
			rec, err := store.Record(ctx, "2025-09-03.json")
			So(err, ShouldBeNil)
			So(rec.Date, ShouldEqual, "2025-09-03")
			So(rec.Malformed(), ShouldBeFalse)
		})

		Convey("A 404 should surface as ErrRecord", func() {
			_, err := store.Record(ctx, "nope.json")
			So(errors.Is(err, records.ErrRecord), ShouldBeTrue)
		})

		Convey("A non-JSON body should surface as ErrDecode", func() {
			_, err := store.Record(ctx, "garbage.json")
			So(errors.Is(err, records.ErrDecode), ShouldBeTrue)
		})

		Convey("Names escaping the base should be refused", func() {
			for _, name := range []string{"../other.json", "/data/2025-09-03.json", "https://evil.example/x.json"} {
				_, err := store.Record(ctx, name)
				So(errors.Is(err, records.ErrOutsideRoot), ShouldBeTrue)
			}
		})

		Convey("The fetch timeout should bound slow responses", func() {
			slow, err := records.NewHTTPStore(srv.URL+"/data/", "", records.WithFetchTimeout(50*time.Millisecond))
			So(err, ShouldBeNil)
			_, err = slow.Record(ctx, "slow.json")
			So(errors.Is(err, records.ErrRecord), ShouldBeTrue)
		})
	})

	Convey("Given a base URL whose manifest is missing", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		store, err := records.NewHTTPStore(srv.URL, "manifest.json")
		So(err, ShouldBeNil)

		Convey("Manifest should fail with ErrManifest", func() {
			_, err := store.Manifest(context.Background())
			So(errors.Is(err, records.ErrManifest), ShouldBeTrue)
		})
	})

	Convey("Given an unsupported URL scheme", t, func() {
		_, err := records.NewHTTPStore("ftp://example.org/data", "")

		Convey("Construction should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
