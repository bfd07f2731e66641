package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mossy-p/meeting-signaling/internal/middleware"
	"github.com/mossy-p/meeting-signaling/internal/models"
	"github.com/mossy-p/meeting-signaling/internal/store"
)

const (
	roomCodeLength = 6
	codeChars      = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // Removed ambiguous chars
)

// StartMeeting opens a meeting for the team and resets its live room.
func (h *Handler) StartMeeting(c *gin.Context) {
	teamID := c.Param("teamId")
	userID := c.GetString(middleware.UserIDKey)

	m := models.Meeting{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		RoomID:    generateRoomCode(),
		Status:    models.MeetingActive,
		StartedBy: userID,
		CreatedAt: h.now(),
	}

	if err := h.store.Create(c.Request.Context(), m); err != nil {
		if errors.Is(err, store.ErrActiveMeeting) {
			c.JSON(http.StatusConflict, gin.H{"error": "Meeting already active for this team"})
			return
		}
		h.logger.Error().Err(err).Str("teamId", teamID).Msg("failed to create meeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start meeting"})
		return
	}

	if err := h.hub.StartMeeting(c.Request.Context(), m); err != nil {
		// the record is stored; clients will pick it up on the next fetch
		h.logger.Warn().Err(err).Str("meetingId", m.ID).Msg("meeting start not broadcast")
	}

	h.logger.Info().
		Str("meetingId", m.ID).
		Str("teamId", teamID).
		Str("roomCode", m.RoomID).
		Str("startedBy", userID).
		Msg("meeting started")

	c.JSON(http.StatusCreated, m)
}

// GetMeeting returns the team's active meeting together with who is in it.
func (h *Handler) GetMeeting(c *gin.Context) {
	teamID := c.Param("teamId")

	m, err := h.store.Active(c.Request.Context(), teamID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active meeting"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("teamId", teamID).Msg("failed to load meeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load meeting"})
		return
	}

	participants, err := h.hub.Snapshot(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Meeting hub unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.MeetingResponse{
		Meeting:      m,
		Participants: models.Views(participants),
	})
}

// EndMeeting marks the meeting inactive and closes its live room. Only the
// request that actually ends the meeting touches the room; repeats answer
// with the stored record.
func (h *Handler) EndMeeting(c *gin.Context) {
	teamID := c.Param("teamId")
	meetingID := c.Param("meetingId")

	m, err := h.store.Get(c.Request.Context(), meetingID)
	if err == nil && m.TeamID != teamID {
		err = store.ErrNotFound
	}
	if err == nil {
		m, err = h.store.End(c.Request.Context(), meetingID, h.now())
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	case errors.Is(err, store.ErrMeetingEnded):
		c.JSON(http.StatusOK, m)
		return
	case err != nil:
		h.logger.Error().Err(err).Str("meetingId", meetingID).Msg("failed to end meeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end meeting"})
		return
	}

	if err := h.hub.EndMeeting(c.Request.Context(), m); err != nil {
		h.logger.Warn().Err(err).Str("meetingId", m.ID).Msg("meeting end not broadcast")
	}

	h.logger.Info().
		Str("meetingId", m.ID).
		Str("teamId", m.TeamID).
		Str("endedBy", c.GetString(middleware.UserIDKey)).
		Msg("meeting ended")

	c.JSON(http.StatusOK, m)
}

// GetParticipants returns the live participant list of the team room.
func (h *Handler) GetParticipants(c *gin.Context) {
	participants, err := h.hub.Snapshot(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Meeting hub unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": models.Views(participants)})
}

// generateRoomCode generates a random room code
func generateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		code[i] = codeChars[n.Int64()]
	}
	return string(code)
}
