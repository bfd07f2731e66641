package meeting

import "github.com/mossy-p/meeting-signaling/internal/models"

// event is one unit of work for the hub loop.
type event interface {
	apply(h *Hub)
}

type registerEvent struct {
	peer Peer
}

func (e registerEvent) apply(h *Hub) { h.register(e.peer) }

type unregisterEvent struct {
	handle string
}

func (e unregisterEvent) apply(h *Hub) { h.unregister(e.handle) }

type callEvent struct {
	fn    func()
	reply chan struct{}
}

func (e callEvent) apply(_ *Hub) {
	e.fn()
	close(e.reply)
}

type inboundEvent struct {
	handle  string
	event   models.Event
	payload any
}

func (e inboundEvent) apply(h *Hub) { h.dispatch(e.handle, e.event, e.payload) }

// dispatch routes a client event. Payloads of the wrong type are logged and
// ignored; nothing a client sends can stop the loop.
func (h *Hub) dispatch(handle string, ev models.Event, payload any) {
	if _, ok := h.peers[handle]; !ok {
		h.logger.Debug().Str("socketId", handle).Str("event", string(ev)).Msg("event from unknown transport ignored")
		return
	}

	switch p := payload.(type) {
	case string:
		if ev == models.EventJoinTeamRoom {
			h.joinTeamRoom(handle, p)
			return
		}
	case models.UserPayload:
		switch ev {
		case models.EventUserJoined:
			h.userJoined(handle, p)
			return
		case models.EventUserLeft:
			h.userLeft(handle, p)
			return
		}
	case models.SignalPayload:
		if ev.IsSignal() {
			h.relay(handle, ev, p)
			return
		}
	case models.MediaPayload:
		switch ev {
		case models.EventToggleCamera:
			if p.CameraOn != nil {
				h.toggle(handle, models.FlagCamera, *p.CameraOn)
			}
			return
		case models.EventToggleMic:
			if p.MicOn != nil {
				h.toggle(handle, models.FlagMic, *p.MicOn)
			}
			return
		case models.EventSharingScreen:
			h.toggle(handle, models.FlagScreenShare, true)
			return
		case models.EventStopSharingScreen:
			h.toggle(handle, models.FlagScreenShare, false)
			return
		}
	case models.Meeting:
		switch ev {
		case models.EventStartMeeting:
			h.meetingStarted(p)
			return
		case models.EventEndMeeting:
			h.meetingEnded(p)
			return
		}
	}
	h.logger.Warn().
		Str("socketId", handle).
		Str("event", string(ev)).
		Type("payload", payload).
		Msg("unhandled event")
}
