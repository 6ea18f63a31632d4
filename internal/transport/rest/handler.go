package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/insights"
	"github.com/sandevgo/briefbot/internal/service/signals"
)

const (
	maxBodyBytes = 64 << 10

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	defaultReportLimit  = 200
	maxReportLimit      = 1000
	maxSignalLimit      = 100
)

type RadarReporter interface {
	Report(ctx context.Context, userID, brief, notes string) (string, bool, error)
}

type SignalCollector interface {
	Collect(ctx context.Context, query string, limit int) []signals.Signal
}

type Handler struct {
	dialogue       core.Dialogue
	radar          RadarReporter
	logs           core.ConversationLog
	collector      SignalCollector
	signalsLimit   int
	alertThreshold int
}

type HandlerConfig struct {
	SignalsLimit   int
	AlertThreshold int
}

func NewHandler(dialogue core.Dialogue, radar RadarReporter, logs core.ConversationLog, collector SignalCollector, cfg HandlerConfig) *Handler {
	if cfg.SignalsLimit <= 0 {
		cfg.SignalsLimit = signals.DefaultLimit
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = signals.DefaultAlertThreshold
	}
	return &Handler{
		dialogue:       dialogue,
		radar:          radar,
		logs:           logs,
		collector:      collector,
		signalsLimit:   cfg.SignalsLimit,
		alertThreshold: cfg.AlertThreshold,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/chat", h.Chat)
	r.Get("/history", h.History)
	r.Post("/radar", h.Radar)
	r.Get("/pulse", h.Pulse)
	r.Get("/alerts", h.Alerts)
	r.Route("/signals", func(r chi.Router) {
		r.Get("/pulse", h.SignalsPulse)
		r.Get("/alerts", h.SignalsAlerts)
	})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"name":      core.BriefName,
		"status":    "ok",
		"endpoints": []string{"/health", "/chat", "/history", "/radar", "/pulse", "/alerts", "/signals/pulse", "/signals/alerts"},
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"ok": true, "version": core.BriefVersion})
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	UserID  string   `json:"user_id"`
	State   string   `json:"state"`
	Reply   string   `json:"reply"`
	IsBrief bool     `json:"is_brief"`
	Missing []string `json:"missing"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	turn, err := h.dialogue.Turn(r.Context(), req.UserID, req.Message)
	if err != nil {
		Fail(w, r, err)
		return
	}

	resp := chatResponse{
		UserID:  turn.UserID,
		State:   string(turn.Phase),
		Reply:   turn.Reply,
		IsBrief: turn.IsBrief,
		Missing: []string{},
	}
	for _, s := range turn.Missing {
		resp.Missing = append(resp.Missing, string(s))
	}
	JSON(w, http.StatusOK, resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	limit, ok := intQuery(r, "limit", defaultHistoryLimit, 1, maxHistoryLimit)
	if !ok {
		Error(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
		return
	}

	entries, err := h.logs.Recent(r.Context(), userID, limit)
	if err != nil {
		Fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.LogEntry{}
	}
	JSON(w, http.StatusOK, entries)
}

type radarRequest struct {
	UserID string `json:"user_id"`
	Brief  string `json:"brief"`
	Notes  string `json:"notes"`
}

type radarResponse struct {
	UserID string `json:"user_id"`
	Reply  string `json:"reply"`
	Found  bool   `json:"found"`
}

func (h *Handler) Radar(w http.ResponseWriter, r *http.Request) {
	var req radarRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	reply, found, err := h.radar.Report(r.Context(), req.UserID, req.Brief, req.Notes)
	if err != nil {
		Fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, radarResponse{UserID: req.UserID, Reply: reply, Found: found})
}

func (h *Handler) Pulse(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.recentAll(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, insights.BuildPulse(entries))
}

func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.recentAll(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, insights.BuildAlerts(entries))
}

func (h *Handler) recentAll(w http.ResponseWriter, r *http.Request) ([]core.LogEntry, bool) {
	limit, ok := intQuery(r, "limit", defaultReportLimit, 1, maxReportLimit)
	if !ok {
		Error(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxReportLimit))
		return nil, false
	}
	entries, err := h.logs.RecentAll(r.Context(), limit)
	if err != nil {
		Fail(w, r, err)
		return nil, false
	}
	return entries, true
}

func (h *Handler) SignalsPulse(w http.ResponseWriter, r *http.Request) {
	sigs, ok := h.collect(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, signals.BuildPulse(sigs))
}

func (h *Handler) SignalsAlerts(w http.ResponseWriter, r *http.Request) {
	threshold, ok := intQuery(r, "threshold", h.alertThreshold, 1, 1000)
	if !ok {
		Error(w, http.StatusBadRequest, "threshold must be a positive integer")
		return
	}
	sigs, ok := h.collect(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, signals.BuildAlerts(sigs, threshold))
}

func (h *Handler) collect(w http.ResponseWriter, r *http.Request) ([]signals.Signal, bool) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		Error(w, http.StatusBadRequest, "q is required")
		return nil, false
	}
	limit, ok := intQuery(r, "limit", h.signalsLimit, 1, maxSignalLimit)
	if !ok {
		Error(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxSignalLimit))
		return nil, false
	}
	if h.collector == nil {
		return []signals.Signal{}, true
	}
	return h.collector.Collect(r.Context(), q, limit), true
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
