// Package dialogue runs the two-phase conversation that turns free chat into a launch brief.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/slots"
	"github.com/sandevgo/briefbot/pkg/log"
)

const (
	ResetReply = "초기화했어. 다시 말해줘."

	briefAnswerPrefix   = "(brief 답변) "
	defaultFollowUp     = "한 가지만 더 알려줘."
	defaultOpenQuestion = "몇 가지만 물어볼게."
)

var resetCommands = map[string]struct{}{
	"리셋":     {},
	"reset":  {},
	"/reset": {},
	"취소":     {},
	"그만":     {},
}

// IsResetCommand reports whether the trimmed message is one of the exact reset literals.
func IsResetCommand(msg string) bool {
	_, ok := resetCommands[strings.TrimSpace(msg)]
	return ok
}

type Controller struct {
	store core.SessionStore
	llm   core.TextCompletionService
	log   core.ConversationLog
	now   func() time.Time
}

func NewController(store core.SessionStore, llm core.TextCompletionService, log core.ConversationLog) *Controller {
	return &Controller{
		store: store,
		llm:   llm,
		log:   log,
		now:   time.Now,
	}
}

// Turn processes one user message. Turns of the same user are serialized by the store lock.
// A collaborator failure leaves the session as it was and writes no log entry.
func (c *Controller) Turn(ctx context.Context, userID, message string) (core.Turn, error) {
	ctx = log.WithUser(ctx, userID)

	unlock, err := c.store.Lock(ctx, userID)
	if err != nil {
		return core.Turn{}, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	sess, err := c.store.GetOrCreate(ctx, userID)
	if err != nil {
		return core.Turn{}, fmt.Errorf("load session: %w", err)
	}

	msg := strings.TrimSpace(message)

	var out outcome
	switch {
	case IsResetCommand(msg):
		sess.Reset()
		out = outcome{reply: ResetReply}
	case sess.Phase == core.PhaseBrief:
		out, err = c.briefTurn(ctx, sess, msg)
	default:
		out, err = c.chatTurn(ctx, sess, msg)
	}
	if err != nil {
		return core.Turn{}, err
	}

	return c.commit(ctx, sess, msg, out)
}

// Session returns a snapshot of the user's session, creating it when absent.
func (c *Controller) Session(ctx context.Context, userID string) (*core.Session, error) {
	return c.store.GetOrCreate(ctx, userID)
}

type outcome struct {
	reply   string
	isBrief bool
}

func (c *Controller) briefTurn(ctx context.Context, sess *core.Session, msg string) (outcome, error) {
	slots.RawAnswerThenExtracted(sess.Slots, sess.PendingSlot, msg)

	if slots.HasRequiredSlots(sess.Slots) {
		log.FromCtx(ctx).Debug().Msg("all required slots filled, rendering brief")
		finish(sess)
		return outcome{reply: slots.RenderLaunchBrief(sess.Slots), isBrief: true}, nil
	}

	res, err := c.llm.Complete(ctx, briefAnswerPrefix+msg, sess.Slots.KnownSlots())
	if err != nil {
		return outcome{}, fmt.Errorf("complete brief answer: %w", err)
	}

	if res.Final {
		finish(sess)
		reply := res.Reply
		if strings.TrimSpace(reply) == "" {
			reply = slots.RenderLaunchBrief(sess.Slots)
		}
		return outcome{reply: reply, isBrief: slots.IsBriefText(reply)}, nil
	}

	c.ask(ctx, sess, res)
	return outcome{reply: orDefault(res.Question, defaultFollowUp)}, nil
}

func (c *Controller) chatTurn(ctx context.Context, sess *core.Session, msg string) (outcome, error) {
	slots.ExtractedOverridesExisting(sess.Slots, "", msg)

	res, err := c.llm.Complete(ctx, msg, sess.Slots.KnownSlots())
	if err != nil {
		return outcome{}, fmt.Errorf("complete chat message: %w", err)
	}

	if res.NeedQuestion {
		c.ask(ctx, sess, res)
		return outcome{reply: orDefault(res.Question, defaultOpenQuestion)}, nil
	}

	return outcome{reply: res.Reply, isBrief: slots.IsBriefText(res.Reply)}, nil
}

// ask moves the session into BRIEF and records which slot the question solicits.
func (c *Controller) ask(ctx context.Context, sess *core.Session, res core.Completion) {
	pending, err := slots.NextPendingSlot(res.Question, res.Slot)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("collaborator declared a slot outside the vocabulary")
	}
	sess.Phase = core.PhaseBrief
	sess.PendingSlot = pending
}

func finish(sess *core.Session) {
	sess.Phase = core.PhaseChat
	sess.PendingSlot = ""
}

func (c *Controller) commit(ctx context.Context, sess *core.Session, msg string, out outcome) (core.Turn, error) {
	if err := c.store.Save(ctx, sess); err != nil {
		return core.Turn{}, fmt.Errorf("save session: %w", err)
	}

	entry := core.LogEntry{
		CreatedAt: c.now().UTC(),
		UserID:    sess.UserID,
		Phase:     sess.Phase,
		Message:   msg,
		Reply:     out.reply,
		IsBrief:   out.isBrief,
	}
	if len(sess.Slots) > 0 {
		entry.Slots = sess.Slots.Clone()
	}
	if err := c.log.Append(ctx, entry); err != nil {
		log.FromCtx(ctx).Error().Err(errors.Join(core.ErrPersistence, err)).Msg("failed to append conversation log")
	}

	log.FromCtx(ctx).Debug().
		Str("phase", string(sess.Phase)).
		Str("pending", string(sess.PendingSlot)).
		Bool("is_brief", out.isBrief).
		Msg("turn committed")

	return core.Turn{
		UserID:  sess.UserID,
		Phase:   sess.Phase,
		Reply:   out.reply,
		IsBrief: out.isBrief,
		Missing: slots.Missing(sess.Slots),
	}, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
