package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/slots"
	"github.com/sandevgo/briefbot/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	message string
	known   []string
}

// fakeLLM replays scripted completions in order and records every call.
type fakeLLM struct {
	mu      sync.Mutex
	replies []core.Completion
	err     error
	calls   []call
}

func (f *fakeLLM) Complete(_ context.Context, msg string, known []string) (core.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{message: msg, known: known})
	if f.err != nil {
		return core.Completion{}, f.err
	}
	if len(f.replies) == 0 {
		return core.Completion{Intent: core.IntentChat, Reply: "ok"}, nil
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next, nil
}

func (f *fakeLLM) Radar(context.Context, string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingLog struct{}

func (failingLog) Append(context.Context, core.LogEntry) error { return errors.New("disk full") }
func (failingLog) Recent(context.Context, string, int) ([]core.LogEntry, error) {
	return nil, nil
}
func (failingLog) RecentAll(context.Context, int) ([]core.LogEntry, error) { return nil, nil }

func newController(llm *fakeLLM) (*Controller, *memory.SessionStore, *memory.LogStore) {
	store := memory.NewSessionStore()
	logs := memory.NewLogStore()
	return NewController(store, llm, logs), store, logs
}

func TestTurn_ChatReply(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{{Intent: core.IntentChat, Reply: "안녕!"}}}
	c, _, logs := newController(llm)

	turn, err := c.Turn(ctx, "u1", "  안녕  ")
	require.NoError(t, err)
	assert.Equal(t, core.Turn{UserID: "u1", Phase: core.PhaseChat, Reply: "안녕!", Missing: slots.RequiredSlots}, turn)

	require.Len(t, llm.calls, 1)
	assert.Equal(t, "안녕", llm.calls[0].message)

	entries, err := logs.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "안녕", entries[0].Message)
	assert.Equal(t, core.PhaseChat, entries[0].Phase)
	assert.Nil(t, entries[0].Slots)
	assert.False(t, entries[0].IsBrief)
}

func TestTurn_ChatToBriefAndBack(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{
		{Intent: core.IntentLaunch, NeedQuestion: true, Question: "어느 국가에 출시해?", Slot: "country"},
		{Intent: core.IntentLaunch, NeedQuestion: true, Question: "가격대는?"},
		{Intent: core.IntentLaunch, Final: true, Reply: "[Launch Brief]\n- done"},
	}}
	c, store, logs := newController(llm)

	turn, err := c.Turn(ctx, "u1", "선크림 출시하고 싶어")
	require.NoError(t, err)
	assert.Equal(t, core.PhaseBrief, turn.Phase)
	assert.Equal(t, "어느 국가에 출시해?", turn.Reply)

	sess, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, core.SlotCountry, sess.PendingSlot)
	assert.Equal(t, "선크림", sess.Slots[core.SlotCategory])

	turn, err = c.Turn(ctx, "u1", "일본")
	require.NoError(t, err)
	assert.Equal(t, core.PhaseBrief, turn.Phase)
	assert.Equal(t, "(brief 답변) 일본", llm.calls[1].message)
	assert.Equal(t, []string{"country:일본", "category:선크림"}, llm.calls[1].known)

	sess, err = store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, core.SlotPrice, sess.PendingSlot)

	turn, err = c.Turn(ctx, "u1", "잘 모르겠어")
	require.NoError(t, err)
	assert.Equal(t, core.PhaseChat, turn.Phase)
	assert.True(t, turn.IsBrief)

	sess, err = store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sess.PendingSlot)
	assert.Equal(t, "잘 모르겠어", sess.Slots[core.SlotPrice])

	entries, err := logs.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsBrief)
	assert.Equal(t, core.PhaseBrief, entries[1].Phase)
}

func TestTurn_DefaultQuestions(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{
		{NeedQuestion: true},
		{},
	}}
	c, store, _ := newController(llm)

	turn, err := c.Turn(ctx, "u1", "출시 준비 중")
	require.NoError(t, err)
	assert.Equal(t, defaultOpenQuestion, turn.Reply)

	sess, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, core.SlotMisc, sess.PendingSlot)

	turn, err = c.Turn(ctx, "u1", "음")
	require.NoError(t, err)
	assert.Equal(t, core.PhaseBrief, turn.Phase)
	assert.Equal(t, defaultFollowUp, turn.Reply)
}

func TestTurn_EarlyCompletionSkipsCollaborator(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{}
	c, store, logs := newController(llm)

	require.NoError(t, store.Save(ctx, &core.Session{
		UserID:      "u1",
		Phase:       core.PhaseBrief,
		Slots:       core.Slots{},
		PendingSlot: core.SlotMisc,
	}))

	turn, err := c.Turn(ctx, "u1", "미국 선크림 20~30대 여성 2~3만원대 아마존 민감")
	require.NoError(t, err)
	assert.Zero(t, llm.callCount())
	assert.Equal(t, core.PhaseChat, turn.Phase)
	assert.True(t, turn.IsBrief)
	assert.True(t, slots.IsBriefText(turn.Reply))
	assert.Contains(t, turn.Reply, "- Target: 20~30대 여성\n")

	entries, err := logs.Recent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsBrief)
	assert.Equal(t, "미국", entries[0].Slots[core.SlotCountry])
}

func TestTurn_LastSlotCompletesBrief(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{}
	c, store, _ := newController(llm)

	require.NoError(t, store.Save(ctx, &core.Session{
		UserID: "u1",
		Phase:  core.PhaseBrief,
		Slots: core.Slots{
			core.SlotCountry:  "미국",
			core.SlotCategory: "선크림",
			core.SlotTarget:   "20~30대 여성",
			core.SlotNeed:     "민감피부",
			core.SlotChannel:  "아마존",
		},
		PendingSlot: core.SlotPrice,
	}))

	turn, err := c.Turn(ctx, "u1", "3만원 정도")
	require.NoError(t, err)
	assert.Zero(t, llm.callCount())
	assert.True(t, turn.IsBrief)
	assert.Equal(t, core.PhaseChat, turn.Phase)
	assert.Empty(t, turn.Missing)
	assert.Contains(t, turn.Reply, "- Price Band: 3만원 정도\n")

	sess, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sess.PendingSlot)
}

func TestTurn_ReportsMissingSlots(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{{Intent: core.IntentLaunch, NeedQuestion: true, Question: "가격대는?"}}}
	c, _, _ := newController(llm)

	turn, err := c.Turn(ctx, "u1", "미국 선크림 아마존")
	require.NoError(t, err)
	assert.Equal(t, []core.Slot{core.SlotTarget, core.SlotNeed, core.SlotPrice}, turn.Missing)
}

func TestTurn_ResetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{}
	c, store, _ := newController(llm)

	require.NoError(t, store.Save(ctx, &core.Session{
		UserID:      "u1",
		Phase:       core.PhaseBrief,
		Slots:       core.Slots{core.SlotCountry: "미국"},
		PendingSlot: core.SlotPrice,
	}))

	for _, literal := range []string{"reset", " 리셋 ", "/reset"} {
		turn, err := c.Turn(ctx, "u1", literal)
		require.NoError(t, err)
		assert.Equal(t, ResetReply, turn.Reply)
		assert.Equal(t, core.PhaseChat, turn.Phase)

		sess, err := store.GetOrCreate(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, core.NewSession("u1"), sess)
	}
	assert.Zero(t, llm.callCount())
}

func TestIsResetCommand(t *testing.T) {
	for _, s := range []string{"리셋", "reset", "/reset", "취소", "그만", "  그만\n"} {
		assert.True(t, IsResetCommand(s), s)
	}
	for _, s := range []string{"Reset", "리셋해줘", "stop", ""} {
		assert.False(t, IsResetCommand(s), s)
	}
}

func TestTurn_CollaboratorFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{err: core.ErrCollaboratorUnavailable}
	c, store, logs := newController(llm)

	before := &core.Session{
		UserID:      "u1",
		Phase:       core.PhaseBrief,
		Slots:       core.Slots{core.SlotCountry: "미국"},
		PendingSlot: core.SlotCategory,
	}
	require.NoError(t, store.Save(ctx, before))

	_, err := c.Turn(ctx, "u1", "선크림")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCollaboratorUnavailable)
	assert.Equal(t, "collaborator_unavailable", core.ErrorKind(err))

	after, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := logs.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTurn_LogFailureDoesNotFailTurn(t *testing.T) {
	llm := &fakeLLM{replies: []core.Completion{{Reply: "hi"}}}
	c := NewController(memory.NewSessionStore(), llm, failingLog{})

	turn, err := c.Turn(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", turn.Reply)
}

func TestTurn_MonotonicSlots(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{
		{NeedQuestion: true, Question: "카테고리는?"},
		{NeedQuestion: true, Question: "타겟은?"},
		{NeedQuestion: true, Question: "빈 답변도 괜찮아?"},
		{NeedQuestion: true, Question: "니즈는?"},
	}}
	c, store, _ := newController(llm)

	filled := 0
	for _, msg := range []string{"미국 출시", "선크림", "", "20대와 30대 여성"} {
		_, err := c.Turn(ctx, "u1", msg)
		require.NoError(t, err)
		sess, err := store.GetOrCreate(ctx, "u1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(slots.RequiredSlots)-len(slots.Missing(sess.Slots)), filled)
		filled = len(slots.RequiredSlots) - len(slots.Missing(sess.Slots))
	}
	assert.Equal(t, 3, filled)
}

func TestTurn_InferencerFallsBackToCountry(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{
		{NeedQuestion: true, Question: "어느 국가/지역을 먼저 노려?", Slot: "budget"},
	}}
	c, store, _ := newController(llm)

	_, err := c.Turn(ctx, "u1", "출시할래")
	require.NoError(t, err)

	sess, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, core.SlotCountry, sess.PendingSlot)
}

func TestTurn_UnknownDeclaredSlotBecomesMisc(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []core.Completion{
		{NeedQuestion: true, Question: "하나만 더 알려줘", Slot: "budget"},
	}}
	c, store, _ := newController(llm)

	_, err := c.Turn(ctx, "u1", "출시할래")
	require.NoError(t, err)

	sess, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, core.SlotMisc, sess.PendingSlot)
	_, foreign := sess.Slots[core.Slot("budget")]
	assert.False(t, foreign)
}

func TestTurn_SerializesPerUser(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{}
	c, _, logs := newController(llm)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Turn(ctx, "u1", "hello"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	entries, err := logs.Recent(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}
