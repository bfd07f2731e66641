package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mossy-p/meeting-signaling/internal/models"
	"github.com/mossy-p/meeting-signaling/internal/store"
)

const meetingsCollection = "meetings"

// MeetingStore persists meetings in the "meetings" collection. A partial
// unique index on team (active documents only) enforces one active meeting
// per team.
type MeetingStore struct {
	collection *mongo.Collection
}

var _ store.MeetingStore = (*MeetingStore)(nil)

func NewMeetingStore(db *mongo.Database) *MeetingStore {
	return &MeetingStore{collection: db.Collection(meetingsCollection)}
}

// EnsureIndexes creates the indexes the store relies on.
func (s *MeetingStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "team", Value: 1}},
			Options: options.Index().
				SetName("team_active_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.MeetingActive}),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return errors.Wrap(err, "failed to create meeting indexes")
	}
	return nil
}

func (s *MeetingStore) Create(ctx context.Context, m models.Meeting) error {
	m.Status = models.MeetingActive
	if _, err := s.collection.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrActiveMeeting
		}
		return errors.Wrapf(err, "insert meeting %s", m.ID)
	}
	return nil
}

func (s *MeetingStore) Active(ctx context.Context, teamID string) (models.Meeting, error) {
	var m models.Meeting
	err := s.collection.FindOne(ctx, bson.M{"team": teamID, "status": models.MeetingActive}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meeting{}, store.ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, errors.Wrapf(err, "find active meeting for team %s", teamID)
	}
	return m, nil
}

func (s *MeetingStore) Get(ctx context.Context, id string) (models.Meeting, error) {
	var m models.Meeting
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meeting{}, store.ErrNotFound
	}
	if err != nil {
		return models.Meeting{}, errors.Wrapf(err, "find meeting %s", id)
	}
	return m, nil
}

func (s *MeetingStore) End(ctx context.Context, id string, at time.Time) (models.Meeting, error) {
	var m models.Meeting
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.MeetingActive},
		bson.M{"$set": bson.M{"status": models.MeetingInactive, "endedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Meeting{}, errors.Wrapf(err, "end meeting %s", id)
	}

	// already ended, or never existed
	m, err = s.Get(ctx, id)
	if err != nil {
		return models.Meeting{}, err
	}
	return m, store.ErrMeetingEnded
}

func (s *MeetingStore) Close(ctx context.Context) error {
	return s.collection.Database().Client().Disconnect(ctx)
}
