package meeting

import "github.com/mossy-p/meeting-signaling/internal/models"

// toggle records a media flag change for the participant behind handle and
// sends the delta to the rest of the room. Unlike joins and leaves this is not
// followed by a full snapshot.
func (h *Hub) toggle(handle string, flag models.MediaFlag, value bool) {
	roomID, userID, ok := h.registry.Lookup(handle)
	if !ok {
		h.logger.Debug().Str("socketId", handle).Str("flag", string(flag)).Msg("media toggle outside any room")
		return
	}
	if !h.registry.SetMediaFlag(roomID, userID, flag, value) {
		return
	}

	switch flag {
	case models.FlagCamera:
		h.broadcast(roomID, models.EventCameraToggled, models.MediaToggled{
			UserID: userID, Flag: flag, Value: value, CameraOn: &value,
		}, handle)
	case models.FlagMic:
		h.broadcast(roomID, models.EventMicToggled, models.MediaToggled{
			UserID: userID, Flag: flag, Value: value, MicOn: &value,
		}, handle)
	case models.FlagScreenShare:
		ev := models.EventStopSharingScreen
		if value {
			ev = models.EventSharingScreen
		}
		h.broadcast(roomID, ev, models.ScreenShare{
			UserID:      userID,
			PresenterID: h.registry.Presenter(roomID),
		}, handle)
	}

	h.logger.Debug().
		Str("roomId", roomID).
		Str("userId", userID).
		Str("flag", string(flag)).
		Bool("value", value).
		Msg("media status changed")
}
