package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/bigboard/internal/adapters/http/api"
	"github.com/okian/bigboard/internal/adapters/repository"
	service "github.com/okian/bigboard/internal/app"
	"github.com/okian/bigboard/internal/domain/types"
	"github.com/okian/bigboard/pkg/logger"
	"github.com/okian/bigboard/pkg/metrics"
)

var errBroken = errors.New("broken")

// brokenDeps fails every dependency call.
type brokenDeps struct{}

func (brokenDeps) Board(context.Context) ([]api.Entry, error) { return nil, service.ErrNotStarted }
func (brokenDeps) Reorder(context.Context, int, int, int) ([]api.Entry, error) {
	return nil, errBroken
}
func (brokenDeps) ResetOverrides(context.Context) error {
	return repository.ErrStorageUnavailable
}
func (brokenDeps) Overrides(context.Context) (repository.LoadResult, error) {
	return repository.LoadResult{}, service.ErrNotStarted
}
func (brokenDeps) ScoutBoard(context.Context, string) ([]api.Entry, error) { return nil, errBroken }
func (brokenDeps) TopN(context.Context, int) ([]api.Entry, error)          { return nil, errBroken }
func (brokenDeps) Player(context.Context, int) (types.PlayerDetail, error) {
	return types.PlayerDetail{}, errBroken
}
func (brokenDeps) Scouts() []string { return nil }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// newMux serves the API over a started service on a memory store.
func newMux(t *testing.T) (*http.ServeMux, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	svc := service.New(
		service.WithLogger(logger.Nop()),
		service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
		service.WithStore(store),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, logger.Nop()).Register(context.Background(), mux)
	return mux, store
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBoard(w *httptest.ResponseRecorder) []api.Entry {
	var board []api.Entry
	So(json.Unmarshal(w.Body.Bytes(), &board), ShouldBeNil)
	return board
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestBoardEndpoints(t *testing.T) {
	Convey("Given the API over a started service", t, func() {
		mux, store := newMux(t)

		Convey("When getting the board", func() {
			w := do(mux, http.MethodGet, "/board", "")

			Convey("Then the consensus board is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				board := decodeBoard(w)
				So(len(board), ShouldEqual, 12)
				So(board[0].PlayerID, ShouldEqual, 1001)
				So(board[0].Rank, ShouldEqual, 1)
				So(board[0].Overridden, ShouldBeFalse)
			})

			Convey("And a request id is assigned", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller supplies a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/board", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When reordering a player", func() {
			w := do(mux, http.MethodPost, "/board/reorder", `{"player_id":1012,"from_index":11,"to_index":0}`)

			Convey("Then the new board is returned and saved", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				board := decodeBoard(w)
				So(board[0].PlayerID, ShouldEqual, 1012)
				So(store.Len(), ShouldEqual, 1)

				again := decodeBoard(do(mux, http.MethodGet, "/board", ""))
				So(again[0].PlayerID, ShouldEqual, 1012)
				So(again[0].Overridden, ShouldBeTrue)
			})

			Convey("And the overrides endpoint lists the saved order", func() {
				w := do(mux, http.MethodGet, "/board/overrides", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Status  string             `json:"status"`
					Entries []types.OrderEntry `json:"entries"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Status, ShouldEqual, "loaded")
				So(len(body.Entries), ShouldEqual, 12)
				So(body.Entries[0], ShouldResemble, types.OrderEntry{PlayerID: 1012, Rank: 1})
			})

			Convey("And deleting the overrides restores consensus", func() {
				w := do(mux, http.MethodDelete, "/board/overrides", "")
				So(w.Code, ShouldEqual, http.StatusNoContent)
				board := decodeBoard(do(mux, http.MethodGet, "/board", ""))
				So(board[0].PlayerID, ShouldEqual, 1001)
			})
		})

		Convey("When the reorder body is invalid", func() {
			badJSON := do(mux, http.MethodPost, "/board/reorder", `{"player_id":`)
			missing := do(mux, http.MethodPost, "/board/reorder", `{"player_id":1001,"from_index":0}`)
			unknown := do(mux, http.MethodPost, "/board/reorder", `{"player_id":1001,"from_index":0,"to_index":1,"x":1}`)

			Convey("Then each is a bad request", func() {
				So(badJSON.Code, ShouldEqual, http.StatusBadRequest)
				So(missing.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(missing)["message"], ShouldContainSubstring, "to_index")
				So(unknown.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the reorder indexes are out of range", func() {
			w := do(mux, http.MethodPost, "/board/reorder", `{"player_id":1001,"from_index":0,"to_index":99}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the moved player is not at the source index", func() {
			w := do(mux, http.MethodPost, "/board/reorder", `{"player_id":1002,"from_index":0,"to_index":3}`)

			Convey("Then it is a conflict", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w)["code"], ShouldEqual, "stale_board")
			})
		})

		Convey("When using the wrong method", func() {
			w := do(mux, http.MethodGet, "/board/reorder", "")

			Convey("Then it is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
			})
		})
	})
}

func TestReadEndpoints(t *testing.T) {
	Convey("Given the API over a started service", t, func() {
		mux, _ := newMux(t)

		Convey("When asking for the top players", func() {
			def := do(mux, http.MethodGet, "/top", "")
			two := do(mux, http.MethodGet, "/top?limit=2", "")
			bad := do(mux, http.MethodGet, "/top?limit=zero", "")
			big := do(mux, http.MethodGet, "/top?limit=1000", "")

			Convey("Then limits are honoured", func() {
				So(def.Code, ShouldEqual, http.StatusOK)
				So(len(decodeBoard(def)), ShouldEqual, 3)
				So(len(decodeBoard(two)), ShouldEqual, 2)
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
				So(big.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When asking for rankings", func() {
			consensus := do(mux, http.MethodGet, "/rankings", "")
			scout := do(mux, http.MethodGet, "/rankings?scout=Gary+Parrish+Rank", "")
			unknown := do(mux, http.MethodGet, "/rankings?scout=Nobody", "")

			Convey("Then each view is served", func() {
				So(consensus.Code, ShouldEqual, http.StatusOK)
				So(len(decodeBoard(consensus)), ShouldEqual, 11)
				So(scout.Code, ShouldEqual, http.StatusOK)
				So(len(decodeBoard(scout)), ShouldEqual, 10)
				So(unknown.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When looking up players", func() {
			found := do(mux, http.MethodGet, "/players/1001", "")
			missing := do(mux, http.MethodGet, "/players/42", "")
			bad := do(mux, http.MethodGet, "/players/abc", "")
			nested := do(mux, http.MethodGet, "/players/1/x", "")

			Convey("Then status codes follow the lookup", func() {
				So(found.Code, ShouldEqual, http.StatusOK)
				var detail types.PlayerDetail
				So(json.Unmarshal(found.Body.Bytes(), &detail), ShouldBeNil)
				So(detail.Bio.Name, ShouldEqual, "Cooper Flagg")
				So(detail.Ranking.ConsensusRank, ShouldEqual, 1)
				So(detail.ConsensusPosition, ShouldEqual, 1)

				So(missing.Code, ShouldEqual, http.StatusNotFound)
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
				So(nested.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing scouts", func() {
			w := do(mux, http.MethodGet, "/scouts", "")

			Convey("Then the five names are returned", func() {
				var names []string
				So(json.Unmarshal(w.Body.Bytes(), &names), ShouldBeNil)
				So(len(names), ShouldEqual, 5)
				So(names[0], ShouldEqual, "ESPN Rank")
			})
		})

		Convey("When probing health, stats and metrics", func() {
			health := do(mux, http.MethodGet, "/healthz", "")
			stats := do(mux, http.MethodGet, "/stats", "")
			prom := do(mux, http.MethodGet, "/metrics", "")

			Convey("Then each responds", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, `"ok"`)
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(stats.Body.String(), ShouldContainSubstring, `"started":true`)
				So(prom.Code, ShouldEqual, http.StatusOK)
				So(prom.Body.String(), ShouldContainSubstring, "bigboard_ranking_http_requests_total")
			})
		})
	})
}

func TestFailureMapping(t *testing.T) {
	Convey("Given the API over failing dependencies", t, func() {
		mux := http.NewServeMux()
		api.NewServer(brokenDeps{}, &mockStatsProvider{stats: map[string]interface{}{}}, nil).
			Register(context.Background(), mux)

		Convey("Then errors map to status codes by kind", func() {
			So(do(mux, http.MethodGet, "/board", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodDelete, "/board/overrides", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/board/overrides", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/top", "").Code, ShouldEqual, http.StatusInternalServerError)
			So(do(mux, http.MethodPost, "/board/reorder", `{"player_id":1,"from_index":0,"to_index":1}`).Code,
				ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestErrorWrapping(t *testing.T) {
	Convey("Given API errors", t, func() {
		kind := api.NewKind("api.op", api.ErrBadRequest)
		wrapped := api.Wrap("api.op", errBroken)
		both := api.WrapKind("api.op", api.ErrBadRequest, errBroken)

		Convey("Then kinds and causes unwrap", func() {
			So(errors.Is(kind, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(wrapped, errBroken), ShouldBeTrue)
			So(errors.Is(both, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(both, errBroken), ShouldBeTrue)
			So(both.Error(), ShouldEqual, "api.op: bad request: broken")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
