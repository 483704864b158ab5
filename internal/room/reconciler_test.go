package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-chat-service/internal/mocks"
	"catalog-chat-service/internal/models"
	"catalog-chat-service/internal/store"
)

type recordingBroadcaster struct {
	messages []models.Message
	cleared  []string
}

func (b *recordingBroadcaster) BroadcastMessage(roomID string, msg models.Message) {
	b.messages = append(b.messages, msg)
}

func (b *recordingBroadcaster) BroadcastClear(roomID string) {
	b.cleared = append(b.cleared, roomID)
}

func newTestReconciler(t *testing.T, publisher ChannelPublisher, opts Options) (*Reconciler, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	if opts.Cap == 0 {
		opts.Cap = 50
	}
	if opts.TTL == 0 {
		opts.TTL = time.Hour
	}
	return NewReconciler(memStore, publisher, nil, opts), memStore
}

func TestAppendStoresAndPublishes(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{})

	msg := textMsg("m1", "u1", 100)
	publisher.On("PublishMessage", mock.Anything, "roomA", msg).Return(nil).Once()

	count, err := rec.Append(context.Background(), "roomA", msg)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	history, err := rec.History(context.Background(), "roomA")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "m1", history[0].ID)

	publisher.AssertExpectations(t)
}

func TestAppendKeepsListSortedAndCapped(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{Cap: 2})
	publisher.On("PublishMessage", mock.Anything, "roomA", mock.Anything).Return(nil).Times(3)

	ctx := context.Background()
	for _, msg := range []models.Message{
		textMsg("m1", "u1", 100),
		textMsg("m3", "u1", 300),
		textMsg("m2", "u2", 200),
	} {
		_, err := rec.Append(ctx, "roomA", msg)
		require.NoError(t, err)
	}

	history, err := rec.History(ctx, "roomA")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "m2", history[0].ID)
	assert.Equal(t, "m3", history[1].ID)
}

func TestAppendRejectsMalformedMessage(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{})

	ctx := context.Background()
	missingFrom := models.Message{ID: "m1", Kind: models.KindText, Text: "hi", Timestamp: 100}
	_, err := rec.Append(ctx, "roomA", missingFrom)
	assert.ErrorIs(t, err, models.ErrInvalidMessage)

	bothPayloads := textMsg("m2", "u1", 100)
	bothPayloads.ImageDataURL = "data:image/png;base64,x"
	_, err = rec.Append(ctx, "roomA", bothPayloads)
	assert.ErrorIs(t, err, models.ErrInvalidMessage)

	history, err := rec.History(ctx, "roomA")
	require.NoError(t, err)
	assert.Empty(t, history)
	publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAppendDuplicateRefreshesTTLWithoutRewriting(t *testing.T) {
	roomStore := new(mocks.RoomStoreMock)
	publisher := new(mocks.ChannelPublisherMock)
	rec := NewReconciler(roomStore, publisher, nil, Options{Cap: 50, TTL: time.Hour})

	existing := textMsg("m1", "u1", 100)
	roomStore.On("GetMessages", mock.Anything, "roomA").Return([]models.Message{existing}, nil).Once()
	roomStore.On("RefreshTTL", mock.Anything, "roomA", time.Hour).Return(nil).Once()

	retransmission := textMsg("m1", "u1", 100)
	retransmission.Text = "hi2"

	count, err := rec.Append(context.Background(), "roomA", retransmission)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	roomStore.AssertExpectations(t)
	roomStore.AssertNotCalled(t, "SetMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestClearThenHistoryIsEmpty(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{})
	publisher.On("PublishMessage", mock.Anything, "roomA", mock.Anything).Return(nil).Once()
	publisher.On("PublishClear", mock.Anything, "roomA").Return(nil).Once()

	ctx := context.Background()
	_, err := rec.Append(ctx, "roomA", textMsg("m1", "u1", 100))
	require.NoError(t, err)

	require.NoError(t, rec.Clear(ctx, "roomA"))

	history, err := rec.History(ctx, "roomA")
	require.NoError(t, err)
	assert.Empty(t, history)
	publisher.AssertExpectations(t)
}

func TestHistoryUnknownRoomReturnsEmpty(t *testing.T) {
	rec, _ := newTestReconciler(t, nil, Options{})

	history, err := rec.History(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestLastLeaveClearsRoomWhenPolicyEnabled(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{ClearOnLastLeave: true})
	publisher.On("PublishMessage", mock.Anything, "roomA", mock.Anything).Return(nil).Once()
	publisher.On("PublishClear", mock.Anything, "roomA").Return(nil).Once()

	ctx := context.Background()
	_, err := rec.Join(ctx, "roomA", "c1")
	require.NoError(t, err)
	_, err = rec.Append(ctx, "roomA", textMsg("m1", "c1", 100))
	require.NoError(t, err)

	active, err := rec.Leave(ctx, "roomA", "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, active)

	history, err := rec.History(ctx, "roomA")
	require.NoError(t, err)
	assert.Empty(t, history)
	publisher.AssertExpectations(t)
}

func TestLastLeaveBroadcastsClearLikeExplicitClear(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	local := &recordingBroadcaster{}
	rec := NewReconciler(store.NewMemoryStore(), publisher, local, Options{Cap: 50, TTL: time.Hour, ClearOnLastLeave: true})
	publisher.On("PublishMessage", mock.Anything, "roomA", mock.Anything).Return(nil).Once()
	publisher.On("PublishClear", mock.Anything, "roomA").Return(nil).Once()

	ctx := context.Background()
	_, err := rec.Join(ctx, "roomA", "c1")
	require.NoError(t, err)
	_, err = rec.Append(ctx, "roomA", textMsg("m1", "c1", 100))
	require.NoError(t, err)

	active, err := rec.Leave(ctx, "roomA", "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, active)

	// Clients still connected see the wipe, not just future history reads.
	publisher.AssertExpectations(t)
	assert.Equal(t, []string{"roomA"}, local.cleared)
}

func TestLeaveKeepsMessagesWhenPolicyDisabled(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{ClearOnLastLeave: false})
	publisher.On("PublishMessage", mock.Anything, "roomA", mock.Anything).Return(nil).Once()

	ctx := context.Background()
	_, err := rec.Join(ctx, "roomA", "c1")
	require.NoError(t, err)
	_, err = rec.Append(ctx, "roomA", textMsg("m1", "c1", 100))
	require.NoError(t, err)

	_, err = rec.Leave(ctx, "roomA", "c1")
	require.NoError(t, err)

	history, err := rec.History(ctx, "roomA")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLeaveBeforeLastKeepsMessages(t *testing.T) {
	rec, _ := newTestReconciler(t, nil, Options{ClearOnLastLeave: true})

	ctx := context.Background()
	_, err := rec.Join(ctx, "roomA", "c1")
	require.NoError(t, err)
	_, err = rec.Join(ctx, "roomA", "c2")
	require.NoError(t, err)

	active, err := rec.Leave(ctx, "roomA", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestBlankClientIDDoesNotJoinOrLeave(t *testing.T) {
	rec, _ := newTestReconciler(t, nil, Options{ClearOnLastLeave: true})

	ctx := context.Background()
	_, err := rec.Join(ctx, "roomA", "c1")
	require.NoError(t, err)

	active, err := rec.Join(ctx, "roomA", "")
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	active, err = rec.Leave(ctx, "roomA", "")
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestBlankClientLeaveNeverTripsClear(t *testing.T) {
	publisher := new(mocks.ChannelPublisherMock)
	rec, _ := newTestReconciler(t, publisher, Options{ClearOnLastLeave: true})
	publisher.On("PublishMessage", mock.Anything, "roomA", mock.Anything).Return(nil).Once()

	ctx := context.Background()
	_, err := rec.Append(ctx, "roomA", textMsg("m1", "u1", 100))
	require.NoError(t, err)

	// No one ever joined; a stray blank leave must not wipe the room.
	active, err := rec.Leave(ctx, "roomA", "")
	require.NoError(t, err)
	assert.Equal(t, 0, active)

	history, err := rec.History(ctx, "roomA")
	require.NoError(t, err)
	assert.Len(t, history, 1)
	publisher.AssertNotCalled(t, "PublishClear", mock.Anything, mock.Anything)
}

func TestBlankRoomIDFallsBackToDefault(t *testing.T) {
	rec, _ := newTestReconciler(t, nil, Options{})

	ctx := context.Background()
	_, err := rec.Join(ctx, "", "c1")
	require.NoError(t, err)

	active, err := rec.ActiveCount(ctx, store.DefaultRoomID)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}
