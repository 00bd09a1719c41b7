package www

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nhaugen/kraftpris-go/config"
	"github.com/nhaugen/kraftpris-go/database"
	"github.com/nhaugen/kraftpris-go/pricing"
	"github.com/nhaugen/kraftpris-go/types"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfig
	mux    *http.ServeMux
	hub    *Hub
}

func StartServer(composer *pricing.Composer, db *database.Database, cnfg *config.AppConfig) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		config: *cnfg,
		mux:    http.NewServeMux(),
		hub:    NewHub(logger),
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	apiKeyMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("access_token")
			if key == "" {
				key = r.URL.Query().Get("access_token")
			}
			if key != cnfg.Api.ApiKey {
				writeJson(w, http.StatusForbidden, errorBody{Error: "could not validate API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	protected := func(h http.Handler) http.Handler { return logReqMW(apiKeyMW(h)) }

	s.mux.Handle("/day_ahead_today", protected(NewDayAheadTodayHandler(
		logger.With(slog.String("handler", "day_ahead_today")),
		composer,
		cnfg.Pricing)))

	s.mux.Handle("/day_ahead_today_split", protected(NewDayAheadTodaySplitHandler(
		logger.With(slog.String("handler", "day_ahead_today_split")),
		composer,
		cnfg.Pricing)))

	s.mux.Handle("/day_ahead_period_split", protected(NewDayAheadPeriodSplitHandler(
		logger.With(slog.String("handler", "day_ahead_period_split")),
		composer,
		cnfg.Pricing)))

	s.mux.Handle("/log", protected(NewLogHandler(
		logger.With(slog.String("handler", "log")),
		db)))

	s.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// BroadcastDayAhead pushes a freshly composed day-ahead series to all
// connected websocket clients. Wired as a prefetch task subscriber.
func (s *Server) BroadcastDayAhead(components []types.PriceComponents) {
	data, err := json.Marshal(splitRows(components))
	if err != nil {
		s.logger.Error("failed to marshal day-ahead broadcast", slog.Any("error", err))
		return
	}
	s.hub.Broadcast <- data
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.config.Api.Port)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Api.Address, s.config.Api.Port),
		Handler: s.mux,
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}
