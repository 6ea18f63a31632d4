package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlots_KnownSlots(t *testing.T) {
	tests := []struct {
		name  string
		slots Slots
		want  []string
	}{
		{
			name:  "empty",
			slots: Slots{},
			want:  []string{},
		},
		{
			name:  "fixed order regardless of insertion",
			slots: Slots{SlotChannel: "아마존", SlotCountry: "미국", SlotMisc: "x"},
			want:  []string{"country:미국", "channel:아마존", "misc:x"},
		},
		{
			name:  "foreign keys sorted at the end",
			slots: Slots{"zeta": "1", "alpha": "2", SlotPrice: "2~3만원대"},
			want:  []string{"price:2~3만원대", "alpha:2", "zeta:1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slots.KnownSlots())
		})
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in     string
		want   Slot
		wantOk bool
	}{
		{"country", SlotCountry, true},
		{"  Channel ", SlotChannel, true},
		{"misc", SlotMisc, true},
		{"budget", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseSlot(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOk, ok, tt.in)
	}
}

func TestSession_ResetIsIdempotent(t *testing.T) {
	s := NewSession("u1")
	s.Phase = PhaseBrief
	s.PendingSlot = SlotPrice
	s.Slots[SlotCountry] = "미국"

	s.Reset()
	once := *s.Clone()
	s.Reset()

	assert.Equal(t, PhaseChat, s.Phase)
	assert.Empty(t, s.Slots)
	assert.Equal(t, Slot(""), s.PendingSlot)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, once, *s)
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := NewSession("u1")
	s.Slots[SlotNeed] = "진정"

	c := s.Clone()
	c.Slots[SlotNeed] = "보습"

	assert.Equal(t, "진정", s.Slots[SlotNeed])
}
