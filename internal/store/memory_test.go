package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-chat-service/internal/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	msgs := []models.Message{{ID: "m1", From: "u1", Kind: models.KindText, Text: "hi", Timestamp: 100}}
	require.NoError(t, s.SetMessages(ctx, "roomA", msgs, time.Hour))

	got, err := s.GetMessages(ctx, "roomA")
	require.NoError(t, err)
	assert.Equal(t, msgs, got)
}

func TestMemoryStoreUnknownRoomIsEmpty(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.GetMessages(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	msgs := []models.Message{{ID: "m1", From: "u1", Kind: models.KindText, Text: "hi", Timestamp: 100}}
	require.NoError(t, s.SetMessages(ctx, "roomA", msgs, time.Minute))

	now = now.Add(2 * time.Minute)
	got, err := s.GetMessages(ctx, "roomA")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreRefreshTTLExtendsDeadline(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	msgs := []models.Message{{ID: "m1", From: "u1", Kind: models.KindText, Text: "hi", Timestamp: 100}}
	require.NoError(t, s.SetMessages(ctx, "roomA", msgs, time.Minute))

	now = now.Add(30 * time.Second)
	require.NoError(t, s.RefreshTTL(ctx, "roomA", time.Minute))

	now = now.Add(45 * time.Second)
	got, err := s.GetMessages(ctx, "roomA")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	msgs := []models.Message{{ID: "m1", From: "u1", Kind: models.KindText, Text: "hi", Timestamp: 100}}
	require.NoError(t, s.SetMessages(ctx, "roomA", msgs, time.Hour))
	require.NoError(t, s.DeleteMessages(ctx, "roomA"))

	got, err := s.GetMessages(ctx, "roomA")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreParticipants(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	count, err := s.AddParticipant(ctx, "roomA", "c1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Joining twice is not two participants.
	count, err = s.AddParticipant(ctx, "roomA", "c1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.AddParticipant(ctx, "roomA", "c2", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = s.RemoveParticipant(ctx, "roomA", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.CountParticipants(ctx, "roomA")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreParticipantsExpire(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	count, err := s.AddParticipant(ctx, "roomA", "c1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	now = now.Add(2 * time.Minute)
	count, err = s.CountParticipants(ctx, "roomA")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMemoryStoreJoinRefreshesParticipantDeadline(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.AddParticipant(ctx, "roomA", "c1", time.Minute)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = s.AddParticipant(ctx, "roomA", "c2", time.Minute)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	count, err := s.CountParticipants(ctx, "roomA")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSanitizeRoomID(t *testing.T) {
	assert.Equal(t, DefaultRoomID, SanitizeRoomID(""))
	assert.Equal(t, DefaultRoomID, SanitizeRoomID("   "))
	assert.Equal(t, "roomA", SanitizeRoomID("roomA"))
}
