package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MEETING_STORE", "ALLOWED_ORIGINS", "EMPTY_ROOM_TTL", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.MeetingStore)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Hub.EmptyRoomTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MEETING_STORE", StoreRedis)
	t.Setenv("REDIS_DB", "3")
	t.Setenv("EMPTY_ROOM_TTL", "30s")
	t.Setenv("SEND_BUFFER", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreRedis, cfg.MeetingStore)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Hub.EmptyRoomTTL)
	assert.Equal(t, 256, cfg.Hub.SendBuffer)
}

func TestBindFlagsOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "")
	cfg := Load()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-p", "7000", "--meeting-store", "mongo", "--empty-room-ttl", "2m"}))

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.MeetingStore)
	assert.Equal(t, 2*time.Minute, cfg.Hub.EmptyRoomTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}
