package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"footballyet/internal/config"
	"footballyet/internal/countdown"
	"footballyet/internal/feed"
	"footballyet/internal/icsexport"
	appLog "footballyet/internal/log"
	"footballyet/internal/metrics"
	"footballyet/internal/model"
	"footballyet/internal/schedule"
)

// ScheduleSource returns the schedule for the current cache bucket.
type ScheduleSource interface {
	Current(ctx context.Context) ([]model.ScheduleEntry, error)
}

// Server exposes the schedule, the season answer and the countdown as JSON,
// plus an iCalendar export.
type Server struct {
	cfg    *config.Config
	source ScheduleSource
	loc    *time.Location
	now    func() time.Time
	router chi.Router
}

// NewServer constructs a new Server. loc is the home timezone used to decide
// what "today" is.
func NewServer(cfg *config.Config, source ScheduleSource, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	s := &Server{
		cfg:    cfg,
		source: source,
		loc:    loc,
		now:    time.Now,
		router: chi.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="footballyet", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.Config, source ScheduleSource, loc *time.Location) error {
	s := NewServer(cfg, source, loc)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.FetchTimeout() + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		appLog.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/answer", s.handleAnswer)
	s.router.Get("/api/schedule", s.handleSchedule)
	s.router.Get("/api/countdown", s.handleCountdown)
	s.router.Get("/calendar.ics", s.handleICS)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// answerResponse is the JSON response shape for /api/answer.
type answerResponse struct {
	InSeason bool   `json:"in_season"`
	Answer   string `json:"answer"`
}

// entryDTO is a JSON-friendly view of a schedule entry with its derived
// display fields.
type entryDTO struct {
	Title          string            `json:"title"`
	StartTime      string            `json:"start_time"`
	Resolved       bool              `json:"resolved"`
	LocalDate      string            `json:"local_date"`
	LocalTime      string            `json:"local_time"`
	Team           string            `json:"team"`
	Opponent       string            `json:"opponent"`
	IsHome         bool              `json:"is_home"`
	Host           string            `json:"host"`
	HostLogo       string            `json:"host_logo"`
	Guest          string            `json:"guest"`
	GuestLogo      string            `json:"guest_logo"`
	Location       string            `json:"location"`
	CalendarLink   string            `json:"calendar_link"`
	StreamingLinks map[string]string `json:"streaming_links"`
}

// scheduleResponse is the JSON response shape for /api/schedule.
type scheduleResponse struct {
	Entries     []entryDTO `json:"entries"`
	IncludePast bool       `json:"include_past"`
	Timezone    string     `json:"timezone"`
}

type countdownValueDTO struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	Text  string `json:"text"`
	// Phrase is the singular/plural form, e.g. "1 hour".
	Phrase string `json:"phrase"`
}

// countdownResponse is the JSON response shape for /api/countdown.
type countdownResponse struct {
	Title     string              `json:"title"`
	Target    time.Time           `json:"target"`
	Estimated bool                `json:"estimated"`
	Values    []countdownValueDTO `json:"values"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.loadSchedule(w, r)
	if !ok {
		return
	}
	inSeason := schedule.IsInSeason(entries, s.now().In(s.loc))
	resp := answerResponse{InSeason: inSeason, Answer: "NO"}
	if inSeason {
		resp.Answer = "YES"
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSchedule returns upcoming games, or every game with ?all=1.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.loadSchedule(w, r)
	if !ok {
		return
	}

	includePast := parseBoolDefault(r.URL.Query().Get("all"), false)
	if !includePast {
		entries = schedule.Upcoming(entries, s.now().In(s.loc))
	}

	dtos := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toDTO(e))
	}
	writeJSON(w, http.StatusOK, scheduleResponse{
		Entries:     dtos,
		IncludePast: includePast,
		Timezone:    s.loc.String(),
	})
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.loadSchedule(w, r)
	if !ok {
		return
	}

	now := s.now()
	target := schedule.NextKickoff(entries, now, s.loc)
	values := countdown.Until(target.At, now).CountdownValues()

	dtos := make([]countdownValueDTO, 0, len(values))
	for _, v := range values {
		dtos = append(dtos, countdownValueDTO{Label: v.Label, Value: v.Count, Text: v.String(), Phrase: v.Phrase()})
	}
	writeJSON(w, http.StatusOK, countdownResponse{
		Title:     target.Title,
		Target:    target.At,
		Estimated: target.Estimated,
		Values:    dtos,
	})
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.loadSchedule(w, r)
	if !ok {
		return
	}
	name := "Football"
	if s.cfg != nil && s.cfg.Team != "" {
		name = s.cfg.Team + " Football"
	}
	body := icsexport.Render(entries, name, s.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// loadSchedule fetches the current schedule and writes an error response on
// failure. Transport and decode failures are reported as 502 with a kind the
// front end can show; an empty schedule is not an error.
func (s *Server) loadSchedule(w http.ResponseWriter, r *http.Request) ([]model.ScheduleEntry, bool) {
	entries, err := s.source.Current(r.Context())
	if err == nil {
		return entries, true
	}

	switch {
	case feed.IsTransport(err):
		appLog.Error("schedule unavailable: feed transport failed", err, "path", r.URL.Path)
		writeError(w, http.StatusBadGateway, "transport", "the schedule feed could not be reached")
	case feed.IsDecode(err):
		appLog.Error("schedule unavailable: feed could not be decoded", err, "path", r.URL.Path)
		writeError(w, http.StatusBadGateway, "decode", "the schedule feed could not be read")
	default:
		appLog.Error("schedule unavailable", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load schedule")
	}
	return nil, false
}

func toDTO(e model.ScheduleEntry) entryDTO {
	links := e.StreamingLinks
	if links == nil {
		links = map[string]string{}
	}
	return entryDTO{
		Title:          e.Title(),
		StartTime:      e.StartTime.String(),
		Resolved:       e.StartTime.IsResolved(),
		LocalDate:      e.LocalDate(),
		LocalTime:      e.LocalTime(),
		Team:           e.Team,
		Opponent:       e.Opponent,
		IsHome:         e.IsHome(),
		Host:           e.Host(),
		HostLogo:       e.HostLogo(),
		Guest:          e.Guest(),
		GuestLogo:      e.GuestLogo(),
		Location:       e.Location,
		CalendarLink:   e.CalendarLink,
		StreamingLinks: links,
	}
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	type errResp struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	writeJSON(w, status, errResp{Error: msg, Kind: kind})
}
