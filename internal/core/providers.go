package core

import "context"

type TextCompletionService interface {
	Complete(ctx context.Context, userMessage string, knownSlots []string) (Completion, error)
	Radar(ctx context.Context, brief, notes string) (string, error)
}
