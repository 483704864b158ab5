package room

import (
	"context"
	"fmt"
	"log"
	"time"

	"catalog-chat-service/internal/models"
	"catalog-chat-service/internal/observability"
	"catalog-chat-service/internal/store"
)

// ChannelPublisher pushes room events to the realtime channel so that
// clients connected elsewhere converge on the same view.
type ChannelPublisher interface {
	PublishMessage(ctx context.Context, roomID string, msg models.Message) error
	PublishClear(ctx context.Context, roomID string) error
}

// Broadcaster fans events out to clients connected to this instance.
type Broadcaster interface {
	BroadcastMessage(roomID string, msg models.Message)
	BroadcastClear(roomID string)
}

// Options tune the per-room bookkeeping.
type Options struct {
	// Cap bounds the stored list to the most recent N messages.
	Cap int
	// TTL is the room entry lifetime, refreshed on every write.
	TTL time.Duration
	// ClearOnLastLeave wipes the stored list when the last active
	// participant leaves. Policy choice; both behaviors exist in the wild.
	ClearOnLastLeave bool
}

// Reconciler keeps every client's view of a room converging on the same
// deduplicated, ordered, size-bounded message list, no matter which of the
// three sources (local send, history load, realtime event) delivered a
// message first.
type Reconciler struct {
	store     store.RoomStore
	publisher ChannelPublisher
	local     Broadcaster
	opts      Options
}

// NewReconciler builds a Reconciler.
func NewReconciler(roomStore store.RoomStore, publisher ChannelPublisher, local Broadcaster, opts Options) *Reconciler {
	return &Reconciler{
		store:     roomStore,
		publisher: publisher,
		local:     local,
		opts:      opts,
	}
}

// Join marks the client active and extends the room lifetime. A blank
// client id is acknowledged without touching the participant set.
func (r *Reconciler) Join(ctx context.Context, roomID, clientID string) (int, error) {
	roomID = store.SanitizeRoomID(roomID)
	if clientID == "" {
		return r.store.CountParticipants(ctx, roomID)
	}
	active, err := r.store.AddParticipant(ctx, roomID, clientID, r.opts.TTL)
	if err != nil {
		return 0, fmt.Errorf("join room %s: %w", roomID, err)
	}
	return active, nil
}

// Leave removes the client from the active set. When the last participant
// leaves and the policy allows it, the stored list is cleared and the clear
// is broadcast exactly as an explicit Clear would be. A blank client id is
// acknowledged without mutating anything, so it can never trip the wipe.
func (r *Reconciler) Leave(ctx context.Context, roomID, clientID string) (int, error) {
	roomID = store.SanitizeRoomID(roomID)
	if clientID == "" {
		return r.store.CountParticipants(ctx, roomID)
	}
	active, err := r.store.RemoveParticipant(ctx, roomID, clientID)
	if err != nil {
		return 0, fmt.Errorf("leave room %s: %w", roomID, err)
	}

	if active == 0 && r.opts.ClearOnLastLeave {
		if err := r.store.DeleteMessages(ctx, roomID); err != nil {
			log.Printf("clear on last leave failed room=%s: %v", roomID, err)
		} else {
			r.announceClear(ctx, roomID)
		}
	}
	return active, nil
}

// History returns the persisted list for a room. Rooms with no stored entry
// read as empty, never as an error.
func (r *Reconciler) History(ctx context.Context, roomID string) ([]models.Message, error) {
	msgs, err := r.store.GetMessages(ctx, store.SanitizeRoomID(roomID))
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return msgs, nil
}

// Append is the central write path: validate, dedupe against the persisted
// list, merge, persist with a fresh TTL, then publish so other clients fold
// the message into their own view. Returns the resulting list length.
//
// A duplicate id is a retransmission, not an error: the list stays
// untouched but the TTL is refreshed because the room saw activity.
func (r *Reconciler) Append(ctx context.Context, roomID string, msg models.Message) (int, error) {
	roomID = store.SanitizeRoomID(roomID)

	if err := msg.Validate(); err != nil {
		return 0, err
	}

	current, err := r.store.GetMessages(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("load room %s: %w", roomID, err)
	}

	if Contains(current, msg.ID) {
		observability.IncAppend("duplicate")
		if err := r.store.RefreshTTL(ctx, roomID, r.opts.TTL); err != nil {
			return 0, fmt.Errorf("refresh ttl room %s: %w", roomID, err)
		}
		return len(current), nil
	}

	merged := Merge(current, []models.Message{msg}, r.opts.Cap)
	if err := r.store.SetMessages(ctx, roomID, merged, r.opts.TTL); err != nil {
		return 0, fmt.Errorf("persist room %s: %w", roomID, err)
	}
	observability.IncAppend("stored")

	if r.publisher != nil {
		if err := r.publisher.PublishMessage(ctx, roomID, msg); err != nil {
			log.Printf("realtime publish failed room=%s msg=%s: %v", roomID, msg.ID, err)
		}
	}
	if r.local != nil {
		r.local.BroadcastMessage(roomID, msg)
	}

	return len(merged), nil
}

// Clear deletes the persisted list and broadcasts the clear event so every
// connected client empties its view, independent of the store round-trip.
func (r *Reconciler) Clear(ctx context.Context, roomID string) error {
	roomID = store.SanitizeRoomID(roomID)

	if err := r.store.DeleteMessages(ctx, roomID); err != nil {
		return fmt.Errorf("clear room %s: %w", roomID, err)
	}

	r.announceClear(ctx, roomID)
	return nil
}

// announceClear tells every connected client, here and on other instances,
// to empty its view. Publish failures are logged, not fatal: the store is
// already wiped and history reads converge on empty.
func (r *Reconciler) announceClear(ctx context.Context, roomID string) {
	if r.publisher != nil {
		if err := r.publisher.PublishClear(ctx, roomID); err != nil {
			log.Printf("realtime clear publish failed room=%s: %v", roomID, err)
		}
	}
	if r.local != nil {
		r.local.BroadcastClear(roomID)
	}
}

// ActiveCount reports the current participant count for a room.
func (r *Reconciler) ActiveCount(ctx context.Context, roomID string) (int, error) {
	return r.store.CountParticipants(ctx, store.SanitizeRoomID(roomID))
}
