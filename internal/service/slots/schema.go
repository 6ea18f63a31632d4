// Package slots holds the deterministic half of brief collection: the required
// slot set, the brief renderer, the rule-based extractor and the question classifier.
package slots

import (
	"fmt"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
)

// BriefMarker opens every rendered brief.
const BriefMarker = "[Launch Brief]"

const (
	missingValue = "N/A"
	nextAction   = "경쟁 제품/리뷰 기반 USP 3개 확정"
)

var RequiredSlots = []core.Slot{
	core.SlotCountry,
	core.SlotCategory,
	core.SlotTarget,
	core.SlotNeed,
	core.SlotPrice,
	core.SlotChannel,
}

func HasRequiredSlots(s core.Slots) bool {
	for _, k := range RequiredSlots {
		if s[k] == "" {
			return false
		}
	}
	return true
}

// Missing lists the required slots that are still empty, in schema order.
func Missing(s core.Slots) []core.Slot {
	var out []core.Slot
	for _, k := range RequiredSlots {
		if s[k] == "" {
			out = append(out, k)
		}
	}
	return out
}

// RenderLaunchBrief formats the slot assignment as a brief. Partial input is
// rendered with N/A placeholders.
func RenderLaunchBrief(s core.Slots) string {
	get := func(k core.Slot) string {
		if v := s[k]; v != "" {
			return v
		}
		return missingValue
	}

	country := get(core.SlotCountry)
	category := get(core.SlotCategory)
	target := get(core.SlotTarget)
	need := get(core.SlotNeed)
	price := get(core.SlotPrice)
	channel := get(core.SlotChannel)

	coreClaim := fmt.Sprintf("%s을 위한 %s 컨셉의 %s", target, need, category)

	var b strings.Builder
	b.WriteString(BriefMarker + "\n")
	fmt.Fprintf(&b, "- Country/Region: %s\n", country)
	fmt.Fprintf(&b, "- Category: %s\n", category)
	fmt.Fprintf(&b, "- Target: %s\n", target)
	fmt.Fprintf(&b, "- Key Need: %s\n", need)
	fmt.Fprintf(&b, "- Price Band: %s\n", price)
	fmt.Fprintf(&b, "- Channel Mix: %s\n", channel)
	fmt.Fprintf(&b, "- Core Claim (한 문장): %s\n", coreClaim)
	fmt.Fprintf(&b, "- Next Action (1개): %s\n", nextAction)
	return b.String()
}

// IsBriefText recognizes brief text produced outside RenderLaunchBrief,
// e.g. a final reply of the completion service.
func IsBriefText(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t\r\n"), BriefMarker)
}
