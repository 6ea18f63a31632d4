// Package radar produces a market-radar summary for a user's latest launch brief.
package radar

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
)

const (
	// DefaultLookupLimit bounds how far back the log is scanned for a brief.
	DefaultLookupLimit = 20

	NotFoundReply = "최근 Launch Brief를 찾지 못했어. 먼저 /chat으로 Launch Brief를 만들어줘."
)

type Service struct {
	llm   core.TextCompletionService
	log   core.ConversationLog
	limit int
}

func NewService(llm core.TextCompletionService, log core.ConversationLog, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLookupLimit
	}
	return &Service{llm: llm, log: log, limit: limit}
}

// Report returns the radar reply. found is false when no brief was supplied or
// located; the collaborator is not called in that case.
func (s *Service) Report(ctx context.Context, userID, brief, notes string) (reply string, found bool, err error) {
	brief = strings.TrimSpace(brief)
	notes = strings.TrimSpace(notes)

	if brief == "" {
		entries, err := s.log.Recent(ctx, userID, s.limit)
		if err != nil {
			return "", false, fmt.Errorf("load recent logs: %w", err)
		}
		if e, ok := LatestBrief(entries); ok {
			brief = e.Reply
		}
	}

	if brief == "" {
		log.FromCtx(ctx).Debug().Str("user_id", userID).Msg("no launch brief for radar")
		return NotFoundReply, false, nil
	}

	reply, err = s.llm.Radar(ctx, brief, notes)
	if err != nil {
		return "", true, fmt.Errorf("radar: %w", err)
	}
	return reply, true, nil
}

// LatestBrief returns the newest brief-tagged entry of a newest-first slice.
func LatestBrief(entries []core.LogEntry) (core.LogEntry, bool) {
	for _, e := range entries {
		if e.IsBrief {
			return e, true
		}
	}
	return core.LogEntry{}, false
}
