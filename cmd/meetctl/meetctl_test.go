package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossy-p/meeting-signaling/internal/middleware"
	"github.com/mossy-p/meeting-signaling/internal/models"
)

func TestParseCommand(t *testing.T) {
	ev, payload, err := parseCommand("cam on", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EventToggleCamera, ev)
	p := payload.(models.MediaPayload)
	require.NotNil(t, p.CameraOn)
	assert.True(t, *p.CameraOn)

	ev, payload, err = parseCommand("MIC off", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EventToggleMic, ev)
	p = payload.(models.MediaPayload)
	require.NotNil(t, p.MicOn)
	assert.False(t, *p.MicOn)

	ev, _, err = parseCommand("share", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EventSharingScreen, ev)

	ev, _, err = parseCommand("leave", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EventUserLeft, ev)

	_, _, err = parseCommand("dance", "u1")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "", summarize(nil))
	assert.Equal(t, `{"socketId":"h1"}`, summarize(map[string]any{"socketId": "h1"}))
}

func TestFormatEventIncludesName(t *testing.T) {
	line := formatEvent(time.Now(), models.EventUserConnected, `{"userId":"u2"}`)
	assert.Contains(t, line, string(models.EventUserConnected))
	assert.Contains(t, line, `{"userId":"u2"}`)
}

func TestTokenCommand(t *testing.T) {
	cmd := newTokenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"u1", "--secret", "s3cret", "--name", "Ada"})
	require.NoError(t, cmd.Execute())

	claims, err := middleware.ParseToken("s3cret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
}

func TestRunJoinWrapsDialError(t *testing.T) {
	err := runJoin(context.Background(), &joinOptions{
		url:   "ws://127.0.0.1:1/ws/meetings",
		team:  "team-1",
		user:  "u1",
		codec: "json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial ws://127.0.0.1:1/ws/meetings")
	assert.NotEqual(t, err, errors.Cause(err))
}
