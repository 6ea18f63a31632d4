package core

import (
	"sort"
	"strings"
	"time"
)

const (
	BriefName          = "BriefBot"
	BriefUserAgent     = "briefbot/0.1"
	BriefRepositoryURL = "https://github.com/sandevgo/briefbot"
	BriefVersion       = "0.1.0"
)

// Slot names one attribute of a product-launch brief.
type Slot string

const (
	SlotCountry  Slot = "country"
	SlotCategory Slot = "category"
	SlotTarget   Slot = "target"
	SlotNeed     Slot = "need"
	SlotPrice    Slot = "price"
	SlotChannel  Slot = "channel"

	// SlotMisc collects answers that could not be attributed to a named slot.
	SlotMisc Slot = "misc"
)

var slotOrder = []Slot{SlotCountry, SlotCategory, SlotTarget, SlotNeed, SlotPrice, SlotChannel, SlotMisc}

// Valid reports whether s belongs to the fixed slot vocabulary (misc included).
func (s Slot) Valid() bool {
	for _, known := range slotOrder {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSlot normalizes a slot name coming from outside the process.
func ParseSlot(name string) (Slot, bool) {
	s := Slot(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", false
	}
	return s, true
}

// Slots is the accumulated slot assignment of a session. Last write wins.
type Slots map[Slot]string

func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// KnownSlots renders the assignment as "key:value" pairs in the fixed slot
// order, followed by any foreign keys sorted by name.
func (s Slots) KnownSlots() []string {
	out := make([]string, 0, len(s))
	seen := make(map[Slot]struct{}, len(s))
	for _, k := range slotOrder {
		if v, ok := s[k]; ok {
			out = append(out, string(k)+":"+v)
			seen[k] = struct{}{}
		}
	}

	var extra []string
	for k, v := range s {
		if _, ok := seen[k]; !ok {
			extra = append(extra, string(k)+":"+v)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

type Phase string

const (
	PhaseChat  Phase = "CHAT"
	PhaseBrief Phase = "BRIEF"
)

// Session is the per-user dialogue state.
// PendingSlot is non-empty only while Phase is PhaseBrief.
type Session struct {
	UserID      string `json:"user_id"`
	Phase       Phase  `json:"phase"`
	Slots       Slots  `json:"slots"`
	PendingSlot Slot   `json:"pending_slot,omitempty"`
}

func NewSession(userID string) *Session {
	return &Session{
		UserID: userID,
		Phase:  PhaseChat,
		Slots:  make(Slots),
	}
}

// Reset clears the collected slots and returns to open chat. The record itself survives.
func (s *Session) Reset() {
	s.Phase = PhaseChat
	s.Slots = make(Slots)
	s.PendingSlot = ""
}

func (s *Session) Clone() *Session {
	c := *s
	if s.Slots != nil {
		c.Slots = s.Slots.Clone()
	} else {
		c.Slots = make(Slots)
	}
	return &c
}

// LogEntry is one persisted conversation turn.
type LogEntry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"ts"`
	UserID    string    `json:"user_id"`
	Phase     Phase     `json:"state"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Slots     Slots     `json:"slots,omitempty"`
	IsBrief   bool      `json:"is_brief"`
}

type Intent string

const (
	IntentRadar  Intent = "RADAR"
	IntentLaunch Intent = "LAUNCH"
	IntentChat   Intent = "CHAT"
)

// Completion is the structured answer of the text-completion collaborator.
// Slot is kept raw: the collaborator is not trusted to stay inside the vocabulary.
type Completion struct {
	Intent       Intent `json:"intent"`
	NeedQuestion bool   `json:"need_question"`
	Slot         string `json:"slot"`
	Question     string `json:"question"`
	Final        bool   `json:"final"`
	Reply        string `json:"reply"`
}

// Turn is the outcome of one processed user message.
type Turn struct {
	UserID  string `json:"user_id"`
	Phase   Phase  `json:"state"`
	Reply   string `json:"reply"`
	IsBrief bool   `json:"is_brief"`
	// Missing lists the required slots still empty when the turn was committed.
	Missing []Slot `json:"missing"`
}
