package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/mossy-p/meeting-signaling/internal/models"
	"github.com/mossy-p/meeting-signaling/internal/store"
)

const meetingTTL = 24 * time.Hour

// MeetingStore keeps meeting records as JSON strings plus one pointer key per
// team naming its active meeting:
//
//	<prefix>:meeting:<id>          meeting JSON
//	<prefix>:team:<teamId>:active  active meeting id
type MeetingStore struct {
	rdb    *redis.Client
	prefix string
}

var _ store.MeetingStore = (*MeetingStore)(nil)

func NewMeetingStore(rdb *redis.Client, prefix string) *MeetingStore {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if p == "" {
		p = "meetings"
	}
	return &MeetingStore{rdb: rdb, prefix: p}
}

func (s *MeetingStore) meetingKey(id string) string {
	return s.prefix + ":meeting:" + id
}

func (s *MeetingStore) activeKey(teamID string) string {
	return s.prefix + ":team:" + teamID + ":active"
}

func (s *MeetingStore) Create(ctx context.Context, m models.Meeting) error {
	m.Status = models.MeetingActive
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode meeting")
	}

	claimed, err := s.rdb.SetNX(ctx, s.activeKey(m.TeamID), m.ID, meetingTTL).Result()
	if err != nil {
		return errors.Wrapf(err, "claim active meeting for team %s", m.TeamID)
	}
	if !claimed {
		return store.ErrActiveMeeting
	}

	if err := s.rdb.Set(ctx, s.meetingKey(m.ID), data, meetingTTL).Err(); err != nil {
		s.rdb.Del(ctx, s.activeKey(m.TeamID))
		return errors.Wrapf(err, "store meeting %s", m.ID)
	}
	return nil
}

func (s *MeetingStore) Active(ctx context.Context, teamID string) (models.Meeting, error) {
	id, err := s.rdb.Get(ctx, s.activeKey(teamID)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Meeting{}, store.ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, errors.Wrapf(err, "lookup active meeting for team %s", teamID)
	}
	return s.get(ctx, s.rdb, id)
}

func (s *MeetingStore) Get(ctx context.Context, id string) (models.Meeting, error) {
	return s.get(ctx, s.rdb, id)
}

func (s *MeetingStore) End(ctx context.Context, id string, at time.Time) (models.Meeting, error) {
	var ended models.Meeting
	key := s.meetingKey(id)

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		m, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if m.Status != models.MeetingActive {
			ended = m
			return store.ErrMeetingEnded
		}
		m.Status = models.MeetingInactive
		m.EndedAt = &at
		data, err := json.Marshal(m)
		if err != nil {
			return errors.Wrap(err, "encode meeting")
		}

		activeKey := s.activeKey(m.TeamID)
		current, err := tx.Get(ctx, activeKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, meetingTTL)
			if current == id {
				pipe.Del(ctx, activeKey)
			}
			return nil
		})
		ended = m
		return err
	}, key)
	if err != nil {
		if errors.Is(err, store.ErrMeetingEnded) {
			return ended, err
		}
		if errors.Is(err, store.ErrNotFound) {
			return models.Meeting{}, err
		}
		return models.Meeting{}, errors.Wrapf(err, "end meeting %s", id)
	}
	return ended, nil
}

func (s *MeetingStore) Close(context.Context) error {
	return s.rdb.Close()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *MeetingStore) get(ctx context.Context, c getter, id string) (models.Meeting, error) {
	raw, err := c.Get(ctx, s.meetingKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return models.Meeting{}, store.ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, errors.Wrapf(err, "load meeting %s", id)
	}
	var m models.Meeting
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return models.Meeting{}, errors.Wrapf(err, "decode meeting %s", id)
	}
	return m, nil
}
