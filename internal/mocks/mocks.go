package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"catalog-chat-service/internal/models"
)

type RoomStoreMock struct {
	mock.Mock
}

func (m *RoomStoreMock) GetMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	args := m.Called(ctx, roomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *RoomStoreMock) SetMessages(ctx context.Context, roomID string, msgs []models.Message, ttl time.Duration) error {
	args := m.Called(ctx, roomID, msgs, ttl)
	return args.Error(0)
}

func (m *RoomStoreMock) DeleteMessages(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *RoomStoreMock) RefreshTTL(ctx context.Context, roomID string, ttl time.Duration) error {
	args := m.Called(ctx, roomID, ttl)
	return args.Error(0)
}

func (m *RoomStoreMock) AddParticipant(ctx context.Context, roomID, clientID string, ttl time.Duration) (int, error) {
	args := m.Called(ctx, roomID, clientID, ttl)
	return args.Int(0), args.Error(1)
}

func (m *RoomStoreMock) RemoveParticipant(ctx context.Context, roomID, clientID string) (int, error) {
	args := m.Called(ctx, roomID, clientID)
	return args.Int(0), args.Error(1)
}

func (m *RoomStoreMock) CountParticipants(ctx context.Context, roomID string) (int, error) {
	args := m.Called(ctx, roomID)
	return args.Int(0), args.Error(1)
}

func (m *RoomStoreMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *RoomStoreMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
