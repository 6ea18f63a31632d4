package slots

import (
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
)

// MergePolicy folds one user message into the session slots.
// pending is the slot being solicited, empty outside a brief.
type MergePolicy func(dst core.Slots, pending core.Slot, message string)

// ExtractedOverridesExisting writes every extracted slot over whatever dst holds.
var ExtractedOverridesExisting MergePolicy = func(dst core.Slots, _ core.Slot, message string) {
	for k, v := range Extract(message) {
		dst[k] = v
	}
}

// RawAnswerThenExtracted stores the raw answer under the pending slot, then
// applies ExtractedOverridesExisting so the extractor wins on collisions.
// Without a pending slot the message is not merged at all.
var RawAnswerThenExtracted MergePolicy = func(dst core.Slots, pending core.Slot, message string) {
	if pending == "" {
		return
	}
	if strings.TrimSpace(message) != "" {
		dst[pending] = message
	}
	ExtractedOverridesExisting(dst, pending, message)
}
