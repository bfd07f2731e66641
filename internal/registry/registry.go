// Package registry holds the in-memory presence state of every meeting room:
// who is in which room, under which transport handle, with which media flags.
//
// A Registry is not safe for concurrent use. It is owned by a single goroutine
// (the meeting hub loop) which serialises every mutation. Operations never fail
// on unknown rooms, participants or handles; connection teardown races with
// everything else and stale references are expected.
package registry

import (
	"time"

	"github.com/mossy-p/meeting-signaling/internal/models"
)

type membership struct {
	roomID string
	userID string
}

type room struct {
	id           string
	participants map[string]*models.Participant
	order        []string
	presenter    string
	emptySince   time.Time
}

func (r *room) snapshot() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, userID := range r.order {
		out = append(out, *r.participants[userID])
	}
	return out
}

func (r *room) remove(userID string, now time.Time) {
	delete(r.participants, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.presenter == userID {
		r.presenter = ""
	}
	if len(r.participants) == 0 {
		r.emptySince = now
	}
}

// Registry maps room ids to participants and transport handles to memberships.
type Registry struct {
	rooms   map[string]*room
	handles map[string]membership
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func New(opts ...Option) *Registry {
	r := &Registry{
		rooms:   make(map[string]*room),
		handles: make(map[string]membership),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureRoom creates an empty room if absent and reports whether it did.
func (r *Registry) EnsureRoom(roomID string) bool {
	if _, ok := r.rooms[roomID]; ok {
		return false
	}
	r.rooms[roomID] = &room{
		id:           roomID,
		participants: make(map[string]*models.Participant),
		emptySince:   r.now(),
	}
	return true
}

// ResetRoom makes sure roomID exists and holds no participants, dropping any
// leftover state from an earlier meeting. Dropped participants are returned.
func (r *Registry) ResetRoom(roomID string) []models.Participant {
	removed := r.RemoveRoom(roomID)
	r.EnsureRoom(roomID)
	return removed
}

// RemoveRoom deletes a room and the handle memberships pointing into it.
func (r *Registry) RemoveRoom(roomID string) []models.Participant {
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	removed := rm.snapshot()
	for _, p := range removed {
		delete(r.handles, p.SocketID)
	}
	delete(r.rooms, roomID)
	return removed
}

// HasRoom reports whether roomID is currently tracked.
func (r *Registry) HasRoom(roomID string) bool {
	_, ok := r.rooms[roomID]
	return ok
}

// UpsertParticipant inserts userID into roomID under handle, creating the room
// if needed. An existing entry for userID is replaced wholesale: the media flags
// start false again and the previous handle stops resolving. A handle already
// registered for another (room, user) pair is detached from it first.
//
// The superseded entry for userID, if any, is returned.
func (r *Registry) UpsertParticipant(roomID, userID, handle string, profile map[string]any) (models.Participant, bool) {
	r.EnsureRoom(roomID)
	rm := r.rooms[roomID]
	now := r.now()

	if prev, ok := r.handles[handle]; ok && (prev.roomID != roomID || prev.userID != userID) {
		r.removeMembership(handle, prev)
	}

	var (
		old      models.Participant
		replaced bool
	)
	if existing, ok := rm.participants[userID]; ok {
		old, replaced = *existing, true
		if existing.SocketID != handle {
			delete(r.handles, existing.SocketID)
		}
		if rm.presenter == userID {
			rm.presenter = ""
		}
	} else {
		rm.order = append(rm.order, userID)
	}

	rm.participants[userID] = &models.Participant{
		UserID:      userID,
		SocketID:    handle,
		DisplayName: models.DisplayName(profile),
		Profile:     cloneProfile(profile),
		JoinedAt:    now,
	}
	rm.emptySince = time.Time{}
	r.handles[handle] = membership{roomID: roomID, userID: userID}
	return old, replaced
}

// RemoveParticipantByHandle removes whoever currently owns handle. Unknown
// handles are a no-op, so calling it twice is safe.
func (r *Registry) RemoveParticipantByHandle(handle string) (roomID string, p models.Participant, ok bool) {
	m, found := r.handles[handle]
	if !found {
		return "", models.Participant{}, false
	}
	rm := r.rooms[m.roomID]
	if rm == nil {
		delete(r.handles, handle)
		return "", models.Participant{}, false
	}
	existing := rm.participants[m.userID]
	if existing == nil {
		delete(r.handles, handle)
		return "", models.Participant{}, false
	}
	p = *existing
	r.removeMembership(handle, m)
	return m.roomID, p, true
}

func (r *Registry) removeMembership(handle string, m membership) {
	delete(r.handles, handle)
	if rm := r.rooms[m.roomID]; rm != nil {
		if existing := rm.participants[m.userID]; existing != nil && existing.SocketID == handle {
			rm.remove(m.userID, r.now())
		}
	}
}

// Lookup resolves the room and user that currently own handle.
func (r *Registry) Lookup(handle string) (roomID, userID string, ok bool) {
	m, ok := r.handles[handle]
	return m.roomID, m.userID, ok
}

// IsLive reports whether handle belongs to a participant of some room.
func (r *Registry) IsLive(handle string) bool {
	_, ok := r.handles[handle]
	return ok
}

// SetMediaFlag updates one media flag. Absent rooms or participants are
// ignored; the returned bool says whether anything was stored.
func (r *Registry) SetMediaFlag(roomID, userID string, flag models.MediaFlag, value bool) bool {
	rm := r.rooms[roomID]
	if rm == nil {
		return false
	}
	p := rm.participants[userID]
	if p == nil {
		return false
	}
	switch flag {
	case models.FlagCamera:
		p.CameraOn = value
	case models.FlagMic:
		p.MicOn = value
	case models.FlagScreenShare:
		p.IsSharingScreen = value
		r.updatePresenter(rm, userID, value)
	default:
		return false
	}
	return true
}

// First sharer becomes presenter; the presenter stopping clears the hint.
func (r *Registry) updatePresenter(rm *room, userID string, sharing bool) {
	switch {
	case sharing && rm.presenter == "":
		rm.presenter = userID
	case !sharing && rm.presenter == userID:
		rm.presenter = ""
	}
}

// Presenter returns the advisory screen-share focus of roomID, if any.
func (r *Registry) Presenter(roomID string) string {
	if rm := r.rooms[roomID]; rm != nil {
		return rm.presenter
	}
	return ""
}

// Snapshot returns the participants of roomID in join order. Unknown rooms
// yield an empty, non-nil slice.
func (r *Registry) Snapshot(roomID string) []models.Participant {
	rm := r.rooms[roomID]
	if rm == nil {
		return []models.Participant{}
	}
	return rm.snapshot()
}

// OtherHandles lists every participant of roomID except the one connected
// through excludingHandle.
func (r *Registry) OtherHandles(roomID, excludingHandle string) []models.Peer {
	rm := r.rooms[roomID]
	if rm == nil {
		return []models.Peer{}
	}
	out := make([]models.Peer, 0, len(rm.order))
	for _, userID := range rm.order {
		p := rm.participants[userID]
		if p.SocketID == excludingHandle {
			continue
		}
		out = append(out, models.Peer{SocketID: p.SocketID, UserID: p.UserID})
	}
	return out
}

// Rooms returns the ids of all tracked rooms.
func (r *Registry) Rooms() []string {
	out := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		out = append(out, id)
	}
	return out
}

// Sweep drops rooms that have been empty for at least ttl and returns their ids.
func (r *Registry) Sweep(ttl time.Duration) []string {
	now := r.now()
	var swept []string
	for id, rm := range r.rooms {
		if len(rm.participants) == 0 && !rm.emptySince.IsZero() && now.Sub(rm.emptySince) >= ttl {
			delete(r.rooms, id)
			swept = append(swept, id)
		}
	}
	return swept
}

func cloneProfile(profile map[string]any) map[string]any {
	out := make(map[string]any, len(profile))
	for k, v := range profile {
		out[k] = v
	}
	return out
}
