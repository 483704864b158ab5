package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"catalog-chat-service/internal/models"
)

type ChannelPublisherMock struct {
	mock.Mock
}

func (m *ChannelPublisherMock) PublishMessage(ctx context.Context, roomID string, msg models.Message) error {
	args := m.Called(ctx, roomID, msg)
	return args.Error(0)
}

func (m *ChannelPublisherMock) PublishClear(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ChannelPublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
