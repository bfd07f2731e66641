package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mossy-p/meeting-signaling/internal/models"
	"github.com/mossy-p/meeting-signaling/internal/store"
)

const ns = mtest.TestDb + "." + meetingsCollection

func meetingDoc(id, teamID string, status models.MeetingStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "team", Value: teamID},
		{Key: "roomId", Value: "ABC234"},
		{Key: "status", Value: string(status)},
		{Key: "startedBy", Value: "u1"},
	}
}

func TestMeetingStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, NewMeetingStore(mt.DB).EnsureIndexes(ctx))
		assert.Equal(mt, "createIndexes", mt.GetStartedEvent().CommandName)
	})

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := NewMeetingStore(mt.DB).Create(ctx, models.Meeting{ID: "m1", TeamID: "team-1"})
		require.NoError(mt, err)

		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("create while another meeting is active", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.meetings index: team_active_unique",
		}))
		err := NewMeetingStore(mt.DB).Create(ctx, models.Meeting{ID: "m2", TeamID: "team-1"})
		assert.ErrorIs(mt, err, store.ErrActiveMeeting)
	})

	mt.Run("active", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, meetingDoc("m1", "team-1", models.MeetingActive)))
		m, err := NewMeetingStore(mt.DB).Active(ctx, "team-1")
		require.NoError(mt, err)
		assert.Equal(mt, "m1", m.ID)
		assert.Equal(mt, "team-1", m.TeamID)
		assert.Equal(mt, models.MeetingActive, m.Status)
	})

	mt.Run("no active meeting", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := NewMeetingStore(mt.DB).Active(ctx, "team-1")
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("end active meeting", func(mt *mtest.T) {
		ended := append(meetingDoc("m1", "team-1", models.MeetingInactive), bson.E{Key: "endedAt", Value: at})
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: ended}})

		m, err := NewMeetingStore(mt.DB).End(ctx, "m1", at)
		require.NoError(mt, err)
		assert.Equal(mt, models.MeetingInactive, m.Status)
		require.NotNil(mt, m.EndedAt)
		assert.True(mt, at.Equal(*m.EndedAt))
		assert.Equal(mt, "findAndModify", mt.GetStartedEvent().CommandName)
	})

	mt.Run("end already ended meeting", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, meetingDoc("m1", "team-1", models.MeetingInactive)),
		)
		m, err := NewMeetingStore(mt.DB).End(ctx, "m1", at)
		assert.ErrorIs(mt, err, store.ErrMeetingEnded)
		assert.Equal(mt, "m1", m.ID)
		assert.Equal(mt, models.MeetingInactive, m.Status)
	})

	mt.Run("end unknown meeting", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		_, err := NewMeetingStore(mt.DB).End(ctx, "missing", at)
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("get", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, meetingDoc("m1", "team-1", models.MeetingInactive)))
		m, err := NewMeetingStore(mt.DB).Get(ctx, "m1")
		require.NoError(mt, err)
		assert.Equal(mt, models.MeetingInactive, m.Status)
	})
}
