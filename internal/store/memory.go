package store

import (
	"context"
	"sync"
	"time"

	"github.com/mossy-p/meeting-signaling/internal/models"
)

type MemStore struct {
	mx       *sync.Mutex
	meetings map[string]models.Meeting
	active   map[string]string // team id -> meeting id
}

func NewMemStore() *MemStore {
	return &MemStore{
		mx:       &sync.Mutex{},
		meetings: make(map[string]models.Meeting),
		active:   make(map[string]string),
	}
}

func (ms *MemStore) Create(_ context.Context, m models.Meeting) error {
	ms.mx.Lock()
	defer ms.mx.Unlock()

	if _, ok := ms.active[m.TeamID]; ok {
		return ErrActiveMeeting
	}
	m.Status = models.MeetingActive
	ms.meetings[m.ID] = m
	ms.active[m.TeamID] = m.ID
	return nil
}

func (ms *MemStore) Active(_ context.Context, teamID string) (models.Meeting, error) {
	ms.mx.Lock()
	defer ms.mx.Unlock()

	id, ok := ms.active[teamID]
	if !ok {
		return models.Meeting{}, ErrNotFound
	}
	return ms.meetings[id], nil
}

func (ms *MemStore) Get(_ context.Context, id string) (models.Meeting, error) {
	ms.mx.Lock()
	defer ms.mx.Unlock()

	m, ok := ms.meetings[id]
	if !ok {
		return models.Meeting{}, ErrNotFound
	}
	return m, nil
}

func (ms *MemStore) End(_ context.Context, id string, at time.Time) (models.Meeting, error) {
	ms.mx.Lock()
	defer ms.mx.Unlock()

	m, ok := ms.meetings[id]
	if !ok {
		return models.Meeting{}, ErrNotFound
	}
	if m.Status != models.MeetingActive {
		return m, ErrMeetingEnded
	}
	m.Status = models.MeetingInactive
	m.EndedAt = &at
	ms.meetings[id] = m
	if ms.active[m.TeamID] == id {
		delete(ms.active, m.TeamID)
	}
	return m, nil
}

func (ms *MemStore) Close(context.Context) error {
	return nil
}
