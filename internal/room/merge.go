package room

import (
	"sort"

	"catalog-chat-service/internal/models"
)

// Merge unions incoming messages into current by id, sorts by timestamp
// ascending (id ascending on ties, so the result is deterministic for any
// delivery order) and truncates to the most recent limit entries by dropping
// from the front.
//
// This is the single convergence rule: local sends, history loads and
// realtime events all pass through here, which is what makes the final
// state idempotent and order-independent.
func Merge(current []models.Message, incoming []models.Message, limit int) []models.Message {
	merged := make([]models.Message, 0, len(current)+len(incoming))
	seen := make(map[string]struct{}, len(current)+len(incoming))

	for _, msg := range current {
		if _, ok := seen[msg.ID]; ok {
			continue
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}
	for _, msg := range incoming {
		if _, ok := seen[msg.ID]; ok {
			continue
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		return merged[i].ID < merged[j].ID
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	return merged
}

// Contains reports whether the list already holds a message with the id.
func Contains(msgs []models.Message, id string) bool {
	for _, m := range msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}
