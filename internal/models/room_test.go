package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantViewServerFieldsWin(t *testing.T) {
	p := Participant{
		UserID:      "u1",
		SocketID:    "h1",
		DisplayName: "Ada",
		Profile:     map[string]any{"_id": "u1", "email": "ada@example.com", "cameraOn": true, "socketId": "forged"},
	}

	v := p.View()

	assert.Equal(t, "ada@example.com", v["email"])
	assert.Equal(t, "u1", v["_id"])
	assert.Equal(t, "h1", v["socketId"])
	assert.Equal(t, false, v["cameraOn"])
	assert.Equal(t, "Ada", v["displayName"])
}

func TestUserIdentity(t *testing.T) {
	assert.Equal(t, "a", UserIdentity(map[string]any{"_id": "a", "userId": "b"}))
	assert.Equal(t, "b", UserIdentity(map[string]any{"_id": "", "userId": "b"}))
	assert.Equal(t, "42", UserIdentity(map[string]any{"id": float64(42)}))
	assert.Equal(t, "", UserIdentity(map[string]any{"name": "x"}))
	assert.Equal(t, "", UserIdentity(nil))
}
