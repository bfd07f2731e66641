package models

import "time"

type MeetingStatus string

const (
	MeetingActive   MeetingStatus = "active"
	MeetingInactive MeetingStatus = "inactive"
)

// Meeting is the persisted record of a team call. Field names follow the
// documents the web client already consumes (_id, team).
type Meeting struct {
	ID        string        `json:"_id" bson:"_id" msgpack:"_id"`
	TeamID    string        `json:"team" bson:"team" msgpack:"team"`
	RoomID    string        `json:"roomId" bson:"roomId" msgpack:"roomId"`
	Status    MeetingStatus `json:"status" bson:"status" msgpack:"status"`
	StartedBy string        `json:"startedBy" bson:"startedBy" msgpack:"startedBy"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt" msgpack:"createdAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty" bson:"endedAt,omitempty" msgpack:"endedAt,omitempty"`
}

// MeetingResponse is returned by the active-meeting endpoint.
type MeetingResponse struct {
	Meeting
	Participants []map[string]any `json:"participants"`
}
