// Package signals pulls public market chatter and scores it against need and risk lexicons.
package signals

import (
	"context"
	"strings"
	"time"

	"github.com/sandevgo/briefbot/pkg/log"
)

const (
	DefaultLimit  = 25
	textMaxRunes  = 220
	snippetRunes  = 180
	evidenceLimit = 8
)

type Signal struct {
	Source    string         `json:"source"`
	Platform  string         `json:"platform"`
	CreatedAt time.Time      `json:"created_at"`
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	Text      string         `json:"text"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// Source fetches signals for a query. An empty query yields no signals and no error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]Signal, error)
}

type Collector struct {
	sources []Source
}

func NewCollector(sources ...Source) *Collector {
	return &Collector{sources: sources}
}

// Collect concatenates the results of every source in order. Failing sources are logged and skipped.
func (c *Collector) Collect(ctx context.Context, query string, limit int) []Signal {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out []Signal
	for _, src := range c.sources {
		got, err := src.Fetch(ctx, query, limit)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("source", src.Name()).Msg("signal source failed")
			continue
		}
		out = append(out, got...)
	}
	return out
}

func (c *Collector) Sources() []string {
	names := make([]string, 0, len(c.sources))
	for _, s := range c.sources {
		names = append(names, s.Name())
	}
	return names
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
