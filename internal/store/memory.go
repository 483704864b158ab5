package store

import (
	"context"
	"sync"
	"time"

	"catalog-chat-service/internal/models"
)

// MemoryStore is a process-local RoomStore used when Redis is unconfigured
// and in tests. Rooms are created lazily on first access and evicted by
// deadline checks on read, mirroring the TTL backstop of the Redis variant.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*memoryRoom
	now   func() time.Time
}

type memoryRoom struct {
	messages     []models.Message
	deadline     time.Time
	participants map[string]struct{}
	// clientsDeadline mirrors the expiry the Redis variant puts on the
	// clients key.
	clientsDeadline time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*memoryRoom),
		now:   time.Now,
	}
}

func (s *MemoryStore) room(roomID string) *memoryRoom {
	id := SanitizeRoomID(roomID)
	r, ok := s.rooms[id]
	if !ok {
		r = &memoryRoom{participants: make(map[string]struct{})}
		s.rooms[id] = r
	}
	return r
}

func (s *MemoryStore) expireLocked(r *memoryRoom) {
	if !r.deadline.IsZero() && s.now().After(r.deadline) {
		r.messages = nil
		r.deadline = time.Time{}
	}
	if !r.clientsDeadline.IsZero() && s.now().After(r.clientsDeadline) {
		r.participants = make(map[string]struct{})
		r.clientsDeadline = time.Time{}
	}
}

func (s *MemoryStore) GetMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	s.expireLocked(r)

	out := make([]models.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

func (s *MemoryStore) SetMessages(ctx context.Context, roomID string, msgs []models.Message, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	r.messages = make([]models.Message, len(msgs))
	copy(r.messages, msgs)
	r.deadline = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) DeleteMessages(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	r.messages = nil
	r.deadline = time.Time{}
	return nil
}

func (s *MemoryStore) RefreshTTL(ctx context.Context, roomID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	s.expireLocked(r)
	if r.messages != nil {
		r.deadline = s.now().Add(ttl)
	}
	return nil
}

func (s *MemoryStore) AddParticipant(ctx context.Context, roomID, clientID string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	s.expireLocked(r)
	r.participants[clientID] = struct{}{}
	r.clientsDeadline = s.now().Add(ttl)
	return len(r.participants), nil
}

func (s *MemoryStore) RemoveParticipant(ctx context.Context, roomID, clientID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	s.expireLocked(r)
	delete(r.participants, clientID)
	return len(r.participants), nil
}

func (s *MemoryStore) CountParticipants(ctx context.Context, roomID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.room(roomID)
	s.expireLocked(r)
	return len(r.participants), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
