// Package transport holds helpers shared by the chat surfaces.
package transport

import (
	"context"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
)

// EmptyReply stands in for a successful turn that produced no text.
const EmptyReply = "응답이 비어 있어. 조금 더 자세히 말해줘."

// OrEmptyReply returns reply, or EmptyReply when it holds only whitespace.
func OrEmptyReply(reply string) string {
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}

// ErrorReply renders a failed turn for a human reader. Details stay in the logs.
func ErrorReply(err error) string {
	switch core.ErrorKind(err) {
	case "configuration":
		return "설정이 필요해: OPENAI_API_KEY를 확인해줘."
	case "collaborator_parse":
		return "답변을 해석하지 못했어. 한 번만 다시 말해줘."
	case "collaborator_unavailable":
		return "지금은 AI 응답을 받을 수 없어. 잠시 후 다시 시도해줘."
	default:
		return "처리 중 오류가 발생했어. 잠시 후 다시 시도해줘."
	}
}

// Handle routes slash commands first and everything else into the dialogue.
func Handle(ctx context.Context, router core.CmdRouter, dialogue core.Dialogue, userID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if router != nil {
		if reply, handled := router.Execute(ctx, userID, text); handled {
			return reply, nil
		}
	}
	turn, err := dialogue.Turn(ctx, userID, text)
	if err != nil {
		return "", err
	}
	return turn.Reply, nil
}
