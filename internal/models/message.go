package models

// Event names a signaling frame. Inbound and outbound share the namespace;
// offer/answer/ice-candidate and the screen-share pair keep the same name in
// both directions.
type Event string

// Client → server
const (
	EventJoinTeamRoom      Event = "joinTeamRoom"
	EventUserJoined        Event = "userJoined"
	EventUserLeft          Event = "userLeft"
	EventToggleCamera      Event = "toggle-camera"
	EventToggleMic         Event = "toggle-mic"
	EventStartMeeting      Event = "startMeeting"
	EventEndMeeting        Event = "endMeeting"
	EventOffer             Event = "offer"
	EventAnswer            Event = "answer"
	EventICECandidate      Event = "ice-candidate"
	EventSharingScreen     Event = "sharing-screen"
	EventStopSharingScreen Event = "stop-sharing-screen"
)

// Server → client
const (
	EventConnected           Event = "connected"
	EventOtherUsers          Event = "other-users"
	EventUserConnected       Event = "user-connected"
	EventUserDisconnected    Event = "user-disconnected"
	EventParticipantsUpdated Event = "participantsUpdated"
	EventCameraToggled       Event = "camera-toggled"
	EventMicToggled          Event = "mic-toggled"
	EventMeetingStarted      Event = "meetingStarted"
	EventMeetingEnded        Event = "meetingEnded"
)

// IsSignal reports whether e is relayed peer-to-peer without interpretation.
func (e Event) IsSignal() bool {
	return e == EventOffer || e == EventAnswer || e == EventICECandidate
}

// Frame is the envelope of every message on the socket.
type Frame struct {
	Event Event `json:"event" msgpack:"event"`
	Data  any   `json:"data" msgpack:"data"`
}

// UserPayload carries userJoined / userLeft. User is the client's profile
// object, passed through untouched apart from identity extraction.
type UserPayload struct {
	TeamID string         `json:"teamId" msgpack:"teamId"`
	User   map[string]any `json:"user" msgpack:"user"`
}

// SignalPayload is an inbound offer, answer or ice-candidate.
type SignalPayload struct {
	Target       string `json:"target" msgpack:"target"`
	SDP          any    `json:"sdp,omitempty" msgpack:"sdp,omitempty"`
	Candidate    any    `json:"candidate,omitempty" msgpack:"candidate,omitempty"`
	SenderUserID string `json:"senderUserId,omitempty" msgpack:"senderUserId,omitempty"`
	TargetUserID string `json:"targetUserId,omitempty" msgpack:"targetUserId,omitempty"`
}

// RelayedSignal is what the target of a SignalPayload receives.
type RelayedSignal struct {
	Target         string `json:"target" msgpack:"target"`
	SDP            any    `json:"sdp,omitempty" msgpack:"sdp,omitempty"`
	Candidate      any    `json:"candidate,omitempty" msgpack:"candidate,omitempty"`
	SenderUserID   string `json:"senderUserId,omitempty" msgpack:"senderUserId,omitempty"`
	TargetUserID   string `json:"targetUserId,omitempty" msgpack:"targetUserId,omitempty"`
	SenderSocketID string `json:"senderSocketId" msgpack:"senderSocketId"`
	// Socket duplicates SenderSocketID; the web client reads this name.
	Socket string `json:"socket" msgpack:"socket"`
}

// MediaPayload is an inbound toggle-camera, toggle-mic, sharing-screen or
// stop-sharing-screen. UserID is informational only; the sender is resolved
// from its connection.
type MediaPayload struct {
	UserID   string `json:"userId,omitempty" msgpack:"userId,omitempty"`
	CameraOn *bool  `json:"cameraOn,omitempty" msgpack:"cameraOn,omitempty"`
	MicOn    *bool  `json:"micOn,omitempty" msgpack:"micOn,omitempty"`
}

// MediaToggled is the delta broadcast after a camera or mic toggle.
type MediaToggled struct {
	UserID   string    `json:"userId" msgpack:"userId"`
	Flag     MediaFlag `json:"flag" msgpack:"flag"`
	Value    bool      `json:"value" msgpack:"value"`
	CameraOn *bool     `json:"cameraOn,omitempty" msgpack:"cameraOn,omitempty"`
	MicOn    *bool     `json:"micOn,omitempty" msgpack:"micOn,omitempty"`
}

// ScreenShare is broadcast on sharing-screen / stop-sharing-screen.
// PresenterID is the advisory focus; empty when nobody holds it.
type ScreenShare struct {
	UserID      string `json:"userId" msgpack:"userId"`
	PresenterID string `json:"presenterId" msgpack:"presenterId"`
}

// Connected greets a new connection with its transport handle.
type Connected struct {
	SocketID string `json:"socketId" msgpack:"socketId"`
}
