package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bigboard/internal/adapters/repository"
	app "github.com/okian/bigboard/internal/app"
	"github.com/okian/bigboard/internal/config"
	"github.com/okian/bigboard/pkg/logger"
)

func TestOpenStore(t *testing.T) {
	convey.Convey("Given store configurations", t, func() {
		convey.Convey("When the memory backend is selected", func() {
			cfg := config.New()
			cfg.StoreBackend = config.StoreMemory
			store, err := openStore(cfg)

			convey.Convey("Then a memory store is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := store.(*repository.MemoryStore)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the sqlite backend is selected", func() {
			cfg := config.New()
			cfg.StorePath = filepath.Join(t.TempDir(), "board.db")
			store, err := openStore(cfg)

			convey.Convey("Then a SQLite store is opened", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := store.(*repository.SQLiteStore)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the backend is unknown", func() {
			cfg := config.New()
			cfg.StoreBackend = "redis"
			_, err := openStore(cfg)

			convey.Convey("Then it is a config error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithLogger(logger.Nop()), app.WithStore(repository.NewMemoryStore()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, svc, logger.Nop())

		convey.Convey("Then API and docs routes are served", func() {
			for _, path := range []string{"/board", "/top", "/scouts", "/healthz", "/openapi.yaml", "/api-docs"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestRunConfigError(t *testing.T) {
	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("BIGBOARD_STORE_BACKEND", "nowhere")

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
