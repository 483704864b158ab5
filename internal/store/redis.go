package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog-chat-service/internal/models"
)

// RedisStore keeps each room's message list as one JSON value under a TTL'd
// key, with the participant set alongside it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func roomMessagesKey(roomID string) string {
	return fmt.Sprintf("room:%s:messages", roomID)
}

func roomClientsKey(roomID string) string {
	return fmt.Sprintf("room:%s:clients", roomID)
}

// GetMessages loads the stored list. A missing key is an empty room.
func (s *RedisStore) GetMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	data, err := s.client.Get(ctx, roomMessagesKey(SanitizeRoomID(roomID))).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode room messages: %w", err)
	}
	return msgs, nil
}

// SetMessages replaces the stored list with a fresh TTL.
func (s *RedisStore) SetMessages(ctx context.Context, roomID string, msgs []models.Message, ttl time.Duration) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, roomMessagesKey(SanitizeRoomID(roomID)), data, ttl).Err()
}

// DeleteMessages drops the stored list.
func (s *RedisStore) DeleteMessages(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, roomMessagesKey(SanitizeRoomID(roomID))).Err()
}

// RefreshTTL extends the entry lifetime without rewriting it.
func (s *RedisStore) RefreshTTL(ctx context.Context, roomID string, ttl time.Duration) error {
	return s.client.Expire(ctx, roomMessagesKey(SanitizeRoomID(roomID)), ttl).Err()
}

// AddParticipant marks a client active in a room and returns the new count.
func (s *RedisStore) AddParticipant(ctx context.Context, roomID, clientID string, ttl time.Duration) (int, error) {
	key := roomClientsKey(SanitizeRoomID(roomID))

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, key, clientID)
	pipe.Expire(ctx, key, ttl)
	card := pipe.SCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}

// RemoveParticipant removes a client from the active set and returns the
// remaining count.
func (s *RedisStore) RemoveParticipant(ctx context.Context, roomID, clientID string) (int, error) {
	key := roomClientsKey(SanitizeRoomID(roomID))

	pipe := s.client.Pipeline()
	pipe.SRem(ctx, key, clientID)
	card := pipe.SCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	count := int(card.Val())
	if count == 0 {
		s.client.Del(ctx, key)
	}
	return count, nil
}

// CountParticipants returns the size of the active set.
func (s *RedisStore) CountParticipants(ctx context.Context, roomID string) (int, error) {
	card, err := s.client.SCard(ctx, roomClientsKey(SanitizeRoomID(roomID))).Result()
	return int(card), err
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
