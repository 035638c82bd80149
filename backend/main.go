package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/engine"
)

const (
	tickInterval     = 50 * time.Millisecond
	defaultHintLimit = 10
)

type server struct {
	controller *GameController
	hub        *Hub
	analytics  *Hub
	recent     *statsLog
	log        zerolog.Logger
}

func newServer(cfg Config, logger zerolog.Logger) *server {
	s := &server{
		hub:       NewHub(),
		analytics: NewHub(),
		recent:    newStatsLog(analyticsBacklog),
		log:       logger,
	}
	gameLog := logger.With().Str("component", "game").Logger()
	s.controller = NewGameController(cfg.Engine, DefaultGameSettings(), gameLog, s.publishStats)
	return s
}

func (s *server) publishStats(color PlayerColor, stats engine.Stats) {
	payload := newAnalyticsPayload(color, stats, time.Now())
	s.recent.Add(payload)
	s.analytics.Publish("search", payload)
}

func (s *server) publishStatus() {
	s.hub.Publish("status", controllerStatus(s.controller))
}

func (s *server) publishReset() {
	s.recent.Clear()
	s.hub.Publish("reset", controllerStatus(s.controller))
}

// run starts the hubs and the loop that lets AI players move. Everything
// stops with ctx.
func (s *server) run(ctx context.Context) {
	go s.hub.Run(ctx.Done())
	go s.analytics.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.controller.Tick() {
					continue
				}
				if entry, ok := s.controller.LatestHistoryEntry(); ok {
					s.hub.Publish("history", historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
				}
				s.publishStatus()
			}
		}
	}()
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", s.handleStatus)
	r.Post("/api/start", s.handleStart)
	r.Post("/api/stop", s.handleStop)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/settings", s.handleSettings)
	r.Get("/api/hint", s.handleHint)
	r.Get("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cacheStatusFor(s.controller))
	})
	r.Post("/api/cache/clear", func(w http.ResponseWriter, r *http.Request) {
		s.controller.ClearTables()
		writeJSON(w, http.StatusOK, cacheStatusFor(s.controller))
	})
	r.Get("/api/analytics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, analyticsResponse{Decisions: s.recent.Recent()})
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.hub, s.log, w, r, func(c *Client) {
			c.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(s.controller))})
		}, func(c *Client, msg wsMessage) {
			if msg.Type == "request_status" {
				c.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(s.controller))})
			}
		})
	})
	r.Get("/ws/analytics", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.analytics, s.log, w, r, func(c *Client) {
			for _, p := range s.recent.Recent() {
				c.sendJSON(wsMessage{Type: "search", Payload: mustMarshal(p)})
			}
		}, nil)
	})
	return r
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EngineFirst bool             `json:"engine_first"`
		Settings    *GameSettingsDTO `json:"settings"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	settings := EngineFirst(payload.EngineFirst)
	if payload.Settings != nil {
		settings = settingsFromDTO(*payload.Settings, settings)
	}
	s.controller.StartGame(settings)
	s.publishReset()
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset(s.controller.Settings())
	s.publishReset()
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var move engine.Move
	if err := decodeBody(r, &move); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.controller.ApplyHumanMove(move); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotRunning) || errors.Is(err, ErrNotHumanTurn) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		s.hub.Publish("history", historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	s.publishStatus()
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

// handleSettings merges the posted engine fields over the live config, so a
// client may send only what it changes.
func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings *GameSettingsDTO `json:"settings"`
		Config   json.RawMessage  `json:"config"`
		Save     bool             `json:"save"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(payload.Config) > 0 {
		cfg := GetConfig()
		if err := json.Unmarshal(payload.Config, &cfg.Engine); err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid config"))
			return
		}
		if err := configStore.Update(cfg); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.controller.UpdateConfig(cfg.Engine)
	}
	if payload.Settings != nil {
		s.controller.UpdateSettings(settingsFromDTO(*payload.Settings, s.controller.Settings()))
	}
	if payload.Save {
		path, err := SaveConfig(GetConfig())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.log.Info().Str("path", path).Msg("config saved")
	}
	s.hub.Publish("settings", settingsPayload{
		Settings: settingsToDTO(s.controller.Settings()),
		Config:   GetConfig().Engine,
	})
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleHint(w http.ResponseWriter, r *http.Request) {
	limit := defaultHintLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	state := s.controller.State()
	cands := s.controller.Hint(limit)
	if cands == nil {
		cands = []engine.Candidate{}
	}
	writeJSON(w, http.StatusOK, hintResponse{Player: playerToInt(state.ToMove), Candidates: cands})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid payload")
	}
	return nil
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, path, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)
	if err := configStore.Update(cfg); err != nil {
		log.Fatal().Err(err).Msg("install config")
	}
	if path != "" {
		log.Info().Str("path", path).Msg("config loaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := newServer(cfg, log.Logger)
	srv.run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.routes(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", cfg.Addr).Msg("backend listening")
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}
	cancel()
}
