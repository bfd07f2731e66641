package meeting

import "github.com/mossy-p/meeting-signaling/internal/models"

// relay forwards an offer, answer or ice-candidate to the participant behind
// sig.Target. The SDP and candidate bodies are never inspected. Targets that
// are not live participants are dropped quietly: trickled candidates routinely
// arrive after the other side has gone.
func (h *Hub) relay(from string, kind models.Event, sig models.SignalPayload) {
	logger := h.logger.With().
		Str("event", string(kind)).
		Str("from", from).
		Str("target", sig.Target).
		Logger()

	if sig.Target == "" || !h.registry.IsLive(sig.Target) {
		logger.Debug().Msg("signal target not live, dropped")
		return
	}

	// identities come from the registry whenever it knows them
	senderUserID := sig.SenderUserID
	if _, userID, ok := h.registry.Lookup(from); ok {
		senderUserID = userID
	}
	targetUserID := sig.TargetUserID
	if _, userID, ok := h.registry.Lookup(sig.Target); ok {
		targetUserID = userID
	}

	out := models.RelayedSignal{
		Target:         sig.Target,
		SDP:            sig.SDP,
		Candidate:      sig.Candidate,
		SenderUserID:   senderUserID,
		TargetUserID:   targetUserID,
		SenderSocketID: from,
		Socket:         from,
	}
	if h.send(sig.Target, kind, out) {
		logger.Trace().Str("senderUserId", senderUserID).Str("targetUserId", targetUserID).Msg("signal relayed")
	}
}
