package models

import (
	"fmt"
	"time"
)

// MediaFlag names one of the per-participant media booleans.
type MediaFlag string

const (
	FlagCamera      MediaFlag = "camera"
	FlagMic         MediaFlag = "mic"
	FlagScreenShare MediaFlag = "screenShare"
)

// Participant is one connected person inside one room.
type Participant struct {
	UserID          string         `json:"userId" msgpack:"userId"`
	SocketID        string         `json:"socketId" msgpack:"socketId"`
	DisplayName     string         `json:"displayName,omitempty" msgpack:"displayName,omitempty"`
	Profile         map[string]any `json:"-" msgpack:"-"`
	CameraOn        bool           `json:"cameraOn" msgpack:"cameraOn"`
	MicOn           bool           `json:"micOn" msgpack:"micOn"`
	IsSharingScreen bool           `json:"isSharingScreen" msgpack:"isSharingScreen"`
	JoinedAt        time.Time      `json:"joinedAt" msgpack:"joinedAt"`
}

// View flattens the participant into the shape clients render: the opaque
// profile fields with the server-owned fields layered on top.
func (p Participant) View() map[string]any {
	v := make(map[string]any, len(p.Profile)+7)
	for k, val := range p.Profile {
		v[k] = val
	}
	v["userId"] = p.UserID
	v["socketId"] = p.SocketID
	v["cameraOn"] = p.CameraOn
	v["micOn"] = p.MicOn
	v["isSharingScreen"] = p.IsSharingScreen
	v["joinedAt"] = p.JoinedAt
	if p.DisplayName != "" {
		v["displayName"] = p.DisplayName
	}
	return v
}

// Flag returns the current value of f.
func (p Participant) Flag(f MediaFlag) bool {
	switch f {
	case FlagCamera:
		return p.CameraOn
	case FlagMic:
		return p.MicOn
	case FlagScreenShare:
		return p.IsSharingScreen
	}
	return false
}

// Views converts a snapshot for the participantsUpdated event.
func Views(ps []Participant) []map[string]any {
	out := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.View())
	}
	return out
}

// Peer pairs a transport handle with the stable identity behind it.
type Peer struct {
	SocketID string `json:"socketId" msgpack:"socketId"`
	UserID   string `json:"userId" msgpack:"userId"`
}

// identityKeys are checked in order; the web client sends Mongo-style _id.
var identityKeys = []string{"_id", "userId", "id"}

// UserIdentity extracts the stable user id from a client profile object.
func UserIdentity(user map[string]any) string {
	for _, k := range identityKeys {
		switch v := user[k].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// DisplayName picks a human readable name from a client profile object.
func DisplayName(user map[string]any) string {
	for _, k := range []string{"displayName", "name", "username"} {
		if v, ok := user[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
