package models

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrEmptyEvent   = errors.New("frame has no event")
)

// Codec encodes frames for one WebSocket subprotocol.
type Codec interface {
	// Name is the subprotocol token negotiated during the upgrade.
	Name() string
	// Binary reports whether frames go out as binary WebSocket messages.
	Binary() bool
	Encode(f Frame) ([]byte, error)
	// Decode splits a frame into its event and the still-encoded data.
	Decode(b []byte) (Event, []byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// Codecs lists the supported codecs in server preference order.
var Codecs = []Codec{JSON, Msgpack}

// CodecByName returns the codec for a subprotocol token, JSON when unknown.
func CodecByName(name string) Codec {
	for _, c := range Codecs {
		if c.Name() == name {
			return c
		}
	}
	return JSON
}

// Subprotocols lists the tokens offered to the upgrader.
func Subprotocols() []string {
	out := make([]string, 0, len(Codecs))
	for _, c := range Codecs {
		out = append(out, c.Name())
	}
	return out
}

type jsonCodec struct{}

type jsonInbound struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(f Frame) ([]byte, error) {
	return json.Marshal(f)
}

func (jsonCodec) Decode(b []byte) (Event, []byte, error) {
	var in jsonInbound
	if err := json.Unmarshal(b, &in); err != nil {
		return "", nil, err
	}
	if in.Event == "" {
		return "", nil, ErrEmptyEvent
	}
	return in.Event, in.Data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type msgpackCodec struct{}

type msgpackInbound struct {
	Event Event              `msgpack:"event"`
	Data  msgpack.RawMessage `msgpack:"data"`
}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Encode(f Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}

func (msgpackCodec) Decode(b []byte) (Event, []byte, error) {
	var in msgpackInbound
	if err := msgpack.Unmarshal(b, &in); err != nil {
		return "", nil, err
	}
	if in.Event == "" {
		return "", nil, ErrEmptyEvent
	}
	return in.Event, in.Data, nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// DecodePayload decodes data into the typed payload expected for event.
// joinTeamRoom carries a bare room id string.
func DecodePayload(c Codec, event Event, data []byte) (any, error) {
	var err error
	switch event {
	case EventJoinTeamRoom:
		var roomID string
		err = c.Unmarshal(data, &roomID)
		return roomID, err
	case EventUserJoined, EventUserLeft:
		var p UserPayload
		err = c.Unmarshal(data, &p)
		return p, err
	case EventOffer, EventAnswer, EventICECandidate:
		var p SignalPayload
		err = c.Unmarshal(data, &p)
		return p, err
	case EventToggleCamera, EventToggleMic, EventSharingScreen, EventStopSharingScreen:
		var p MediaPayload
		if len(data) > 0 {
			err = c.Unmarshal(data, &p)
		}
		return p, err
	case EventStartMeeting, EventEndMeeting:
		var m Meeting
		err = c.Unmarshal(data, &m)
		return m, err
	}
	return nil, errors.Wrapf(ErrUnknownEvent, "%q", event)
}
