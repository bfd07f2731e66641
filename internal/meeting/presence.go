package meeting

import "github.com/mossy-p/meeting-signaling/internal/models"

func (h *Hub) joinTeamRoom(handle, roomID string) {
	if roomID == "" {
		h.logger.Debug().Str("socketId", handle).Msg("joinTeamRoom without room id")
		return
	}
	if h.channels.subscribe(roomID, handle) {
		h.logger.Debug().Str("socketId", handle).Str("roomId", roomID).Msg("subscribed to room channel")
	}
}

// userJoined moves handle into roomID as a participant. The registry write
// happens before anything is sent, so every user-connected a peer receives
// names a participant already present in the room snapshot.
func (h *Hub) userJoined(handle string, p models.UserPayload) {
	roomID := p.TeamID
	userID := models.UserIdentity(p.User)
	logger := h.logger.With().Str("socketId", handle).Str("roomId", roomID).Str("userId", userID).Logger()
	if roomID == "" || userID == "" {
		logger.Warn().Msg("userJoined without team or user id")
		return
	}

	// one room per transport: joining elsewhere, or as someone else, leaves first
	if curRoom, curUser, ok := h.registry.Lookup(handle); ok {
		if curRoom == roomID && curUser == userID {
			logger.Debug().Msg("repeated userJoined, resending snapshot")
			h.send(handle, models.EventParticipantsUpdated, models.Views(h.registry.Snapshot(roomID)))
			return
		}
		h.leave(handle)
	}

	h.channels.subscribe(roomID, handle)
	if h.registry.EnsureRoom(roomID) {
		logger.Debug().Msg("room created by join")
	}

	others := make([]models.Peer, 0)
	for _, peer := range h.registry.OtherHandles(roomID, handle) {
		if peer.UserID != userID {
			others = append(others, peer)
		}
	}

	old, replaced := h.registry.UpsertParticipant(roomID, userID, handle, p.User)
	reconnected := replaced && old.SocketID != handle

	h.send(handle, models.EventOtherUsers, others)
	h.publishSnapshot(roomID, "")

	joined := models.Peer{SocketID: handle, UserID: userID}
	stale := models.Peer{SocketID: old.SocketID, UserID: userID}
	for _, peer := range others {
		if reconnected {
			h.send(peer.SocketID, models.EventUserDisconnected, stale)
		}
		h.send(peer.SocketID, models.EventUserConnected, joined)
	}

	ev := logger.Info().Int("others", len(others))
	if reconnected {
		ev = ev.Str("supersededSocketId", old.SocketID)
	}
	ev.Msg("participant joined")
}

func (h *Hub) userLeft(handle string, p models.UserPayload) {
	roomID, _, ok := h.registry.Lookup(handle)
	if !ok {
		h.logger.Debug().Str("socketId", handle).Msg("userLeft from transport outside any room")
		return
	}
	if p.TeamID != "" && p.TeamID != roomID {
		h.logger.Debug().
			Str("socketId", handle).
			Str("roomId", roomID).
			Str("requestedRoomId", p.TeamID).
			Msg("userLeft names another room, leaving current one")
	}
	h.leave(handle)
}

// leave removes handle's participant, if any, and tells the rest of the room.
// The transport itself stays usable and subscribed.
func (h *Hub) leave(handle string) {
	roomID, p, ok := h.registry.RemoveParticipantByHandle(handle)
	if !ok {
		return
	}

	h.broadcast(roomID, models.EventUserDisconnected, models.Peer{SocketID: handle, UserID: p.UserID}, handle)
	if p.IsSharingScreen {
		h.broadcast(roomID, models.EventStopSharingScreen, models.ScreenShare{
			UserID:      p.UserID,
			PresenterID: h.registry.Presenter(roomID),
		}, handle)
	}
	h.publishSnapshot(roomID, handle)

	h.logger.Info().
		Str("socketId", handle).
		Str("roomId", roomID).
		Str("userId", p.UserID).
		Int("remaining", len(h.registry.Snapshot(roomID))).
		Msg("participant left")
}
