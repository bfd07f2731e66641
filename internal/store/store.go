// Package store persists meeting records. The live presence state never goes
// through here; only the start/end history of team meetings does.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mossy-p/meeting-signaling/internal/models"
)

var (
	ErrNotFound      = errors.New("meeting not found")
	ErrActiveMeeting = errors.New("a meeting is already active for this team")
	ErrMeetingEnded  = errors.New("meeting already ended")
)

// MeetingStore is implemented by the memory, redis and mongo backends.
type MeetingStore interface {
	// Create stores m as the active meeting of m.TeamID, or fails with
	// ErrActiveMeeting when the team already has one.
	Create(ctx context.Context, m models.Meeting) error
	// Active returns the active meeting of teamID or ErrNotFound.
	Active(ctx context.Context, teamID string) (models.Meeting, error)
	// Get returns meeting id whatever its status, or ErrNotFound.
	Get(ctx context.Context, id string) (models.Meeting, error)
	// End marks meeting id inactive and returns the updated record. A meeting
	// that was already inactive is returned unchanged with ErrMeetingEnded.
	End(ctx context.Context, id string, at time.Time) (models.Meeting, error)
	Close(ctx context.Context) error
}
