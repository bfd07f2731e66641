package meeting

import "github.com/mossy-p/meeting-signaling/internal/models"

// meetingStarted gives the team a clean room. Participants left over from an
// earlier meeting with the same team id are dropped; the fresh snapshot that
// follows the announcement lets their clients re-sync.
func (h *Hub) meetingStarted(m models.Meeting) {
	if m.TeamID == "" {
		h.logger.Warn().Str("meetingId", m.ID).Msg("meeting start without team")
		return
	}
	dropped := h.registry.ResetRoom(m.TeamID)
	sent := h.broadcast(m.TeamID, models.EventMeetingStarted, m, "")
	h.publishSnapshot(m.TeamID, "")

	h.logger.Info().
		Str("roomId", m.TeamID).
		Str("meetingId", m.ID).
		Int("dropped", len(dropped)).
		Int("notified", sent).
		Msg("meeting started")
}

// meetingEnded notifies the room first, then forgets it.
func (h *Hub) meetingEnded(m models.Meeting) {
	if m.TeamID == "" {
		h.logger.Warn().Str("meetingId", m.ID).Msg("meeting end without team")
		return
	}
	sent := h.broadcast(m.TeamID, models.EventMeetingEnded, m, "")
	removed := h.registry.RemoveRoom(m.TeamID)

	h.logger.Info().
		Str("roomId", m.TeamID).
		Str("meetingId", m.ID).
		Int("participants", len(removed)).
		Int("notified", sent).
		Msg("meeting ended")
}
