package transport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRouter struct{}

func (stubRouter) Execute(_ context.Context, _, input string) (string, bool) {
	if input == "/ping" {
		return "pong", true
	}
	return "", false
}
func (stubRouter) ListCommands() []core.Command { return nil }

type stubDialogue struct {
	got string
	err error
}

func (s *stubDialogue) Turn(_ context.Context, userID, message string) (core.Turn, error) {
	s.got = message
	if s.err != nil {
		return core.Turn{}, s.err
	}
	return core.Turn{UserID: userID, Reply: "turn:" + message}, nil
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	d := &stubDialogue{}

	reply, err := Handle(ctx, stubRouter{}, d, "u", " /ping ")
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)
	assert.Empty(t, d.got)

	reply, err = Handle(ctx, stubRouter{}, d, "u", "/reset")
	require.NoError(t, err)
	assert.Equal(t, "turn:/reset", reply)

	reply, err = Handle(ctx, nil, d, "u", "hi")
	require.NoError(t, err)
	assert.Equal(t, "turn:hi", reply)

	d.err = core.ErrCollaboratorParse
	_, err = Handle(ctx, nil, d, "u", "hi")
	assert.ErrorIs(t, err, core.ErrCollaboratorParse)
}

func TestErrorReply(t *testing.T) {
	assert.Contains(t, ErrorReply(fmt.Errorf("x: %w", core.ErrConfiguration)), "OPENAI_API_KEY")
	assert.NotEqual(t, ErrorReply(core.ErrCollaboratorParse), ErrorReply(core.ErrCollaboratorUnavailable))
	assert.Equal(t, ErrorReply(errors.New("boom")), ErrorReply(errors.New("other")))
}

func TestOrEmptyReply(t *testing.T) {
	assert.Equal(t, EmptyReply, OrEmptyReply(""))
	assert.Equal(t, EmptyReply, OrEmptyReply(" \n\t"))
	assert.Equal(t, "안녕", OrEmptyReply("안녕"))
}
