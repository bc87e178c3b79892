package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	messages []string
	err      error
}

func (s *recordingSink) SendAlert(msg string) error {
	s.messages = append(s.messages, msg)
	return s.err
}

func TestAlertHandler_ForwardsOnlyErrors(t *testing.T) {
	var buf bytes.Buffer
	sink := &recordingSink{}
	failing := &recordingSink{err: errors.New("telegram down")}
	log := NewWithWriter(&buf, sink, failing, nil)

	log.Info("progress saved", "film_id", "f1")
	log.With("request_id", "r1").Error("failed to update role")

	assert.Equal(t, []string{"failed to update role"}, sink.messages)
	assert.Len(t, failing.messages, 1)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "r1", entry["request_id"])
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	l := NewWithWriter(&bytes.Buffer{})
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
