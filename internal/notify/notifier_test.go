package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name  string
	err   error
	calls []string
}

func (f *fakeSender) Send(_ context.Context, title, _ string) error {
	f.calls = append(f.calls, title)
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier_FiltersUnlistedEvents(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, []string{EventSetup}, discardLogger())

	require.NoError(t, n.Notify(context.Background(), EventNoSetup, "quiet", "no signal"))
	assert.Empty(t, s.calls)

	require.NoError(t, n.Notify(context.Background(), EventSetup, "long", "plan"))
	assert.Equal(t, []string{"long"}, s.calls)
}

func TestNotifier_EmptyEventListPassesAll(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, nil, discardLogger())

	require.NoError(t, n.Notify(context.Background(), EventPreSession, "levels", "snapshot"))
	require.NoError(t, n.Notify(context.Background(), EventScanError, "oops", "boom"))
	assert.Len(t, s.calls, 2)
}

func TestNotifier_SenderFailureDoesNotBlockOthers(t *testing.T) {
	bad := &fakeSender{name: "bad", err: errors.New("offline")}
	good := &fakeSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, discardLogger())

	err := n.NotifyAll(context.Background(), "long", "plan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: offline")
	assert.Equal(t, []string{"long"}, good.calls)
}

func TestNotifier_NoSendersIsNoop(t *testing.T) {
	n := NewNotifier(nil, nil, discardLogger())
	require.NoError(t, n.NotifyAll(context.Background(), "long", "plan"))
}
