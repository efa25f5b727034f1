// Package savedmatch persists the recommendations a signed-in user chose to
// keep.
package savedmatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bridgeskills/bridgeskills/internal/recommend"
)

var ErrNotFound = errors.New("saved match not found")

type SavedMatch struct {
	ID             string                      `json:"id"`
	UserID         string                      `json:"userId"`
	Recommendation recommend.JobRecommendation `json:"recommendation"`
	CreatedAt      time.Time                   `json:"createdAt"`
}

type Store interface {
	Save(ctx context.Context, userID string, rec recommend.JobRecommendation) (SavedMatch, error)
	// List returns the user's matches, newest first.
	List(ctx context.Context, userID string) ([]SavedMatch, error)
	Delete(ctx context.Context, userID, id string) error
}

// MemoryStore is a process local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string][]SavedMatch
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{matches: map[string][]SavedMatch{}, now: now}
}

func (m *MemoryStore) Save(_ context.Context, userID string, rec recommend.JobRecommendation) (SavedMatch, error) {
	match := SavedMatch{
		ID:             uuid.NewString(),
		UserID:         userID,
		Recommendation: rec,
		CreatedAt:      m.now().UTC(),
	}
	m.mu.Lock()
	m.matches[userID] = append(m.matches[userID], match)
	m.mu.Unlock()
	return match, nil
}

func (m *MemoryStore) List(_ context.Context, userID string) ([]SavedMatch, error) {
	m.mu.RLock()
	out := append([]SavedMatch{}, m.matches[userID]...)
	m.mu.RUnlock()

	// insertion order breaks ties between equal timestamps
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := m.matches[userID]
	for i, match := range matches {
		if match.ID == id {
			m.matches[userID] = append(matches[:i:i], matches[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
