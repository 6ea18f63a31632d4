package slots

import (
	"fmt"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
)

type inference struct {
	slot     core.Slot
	keywords []string
}

// Priority order matters: a question mentioning both a category and a price is a category question.
var inferenceOrder = []inference{
	{core.SlotCountry, []string{"국가", "지역", "country", "region"}},
	{core.SlotCategory, []string{"카테고리", "선크림", "선스틱", "category"}},
	{core.SlotPrice, []string{"가격", "price", "만원"}},
	{core.SlotChannel, []string{"채널", "유통", "amazon", "올리브영", "channel"}},
	{core.SlotTarget, []string{"타겟", "고객", "target"}},
	{core.SlotNeed, []string{"니즈", "문제", "need"}},
}

// InferSlot guesses which slot a follow-up question asks about. SlotMisc when nothing matches.
func InferSlot(question string) core.Slot {
	q := strings.ToLower(question)
	for _, inf := range inferenceOrder {
		for _, k := range inf.keywords {
			if strings.Contains(q, k) {
				return inf.slot
			}
		}
	}
	return core.SlotMisc
}

// NextPendingSlot picks the slot to solicit next: the inferred slot, then the
// declared one when it belongs to the vocabulary, then misc.
// A declared name outside the vocabulary yields misc and an ErrUnknownSlot.
func NextPendingSlot(question, declared string) (core.Slot, error) {
	if inferred := InferSlot(question); inferred != core.SlotMisc {
		return inferred, nil
	}
	if strings.TrimSpace(declared) == "" {
		return core.SlotMisc, nil
	}
	if s, ok := core.ParseSlot(declared); ok {
		return s, nil
	}
	return core.SlotMisc, fmt.Errorf("%w: %q", core.ErrUnknownSlot, declared)
}
