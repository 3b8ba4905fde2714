package comment

import (
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/Angelito-Alit/comments-api/internal/clock"
	"github.com/Angelito-Alit/comments-api/internal/config"
)

// Store is a mutex-guarded, insertion-ordered comment collection. Ids grow
// monotonically and are never reused, even after deletion.
type Store struct {
	clk clock.Clock

	mu     sync.Mutex
	items  []Comment
	nextID int64
}

func NewStore(clk clock.Clock) *Store {
	return &Store{clk: clk, nextID: 1}
}

// Create appends a new comment with the next id and a UTC timestamp.
// Id assignment and append form one critical section so concurrent callers
// cannot observe duplicate ids.
func (s *Store) Create(author, body string) Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := Comment{
		ID:        s.nextID,
		Author:    author,
		Body:      body,
		Timestamp: s.clk.Now().UTC().Format(time.RFC3339),
	}
	s.nextID++
	s.items = append(s.items, created)
	return created
}

// List returns all comments in insertion order.
func (s *Store) List() []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Comment, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the comment with the given id.
func (s *Store) Get(id int64) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Comment{}, ErrNotFound
}

// Delete removes the comment with the given id, leaving remaining ids and
// order unchanged. Deleting an absent id yields ErrNotFound.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Seed inserts the demo comments the service historically ships with.
func (s *Store) Seed() {
	s.Create("Juan Pérez", "Este es un comentario de ejemplo")
	s.Create("María González", "Excelente proyecto de CI/CD")
}

func newSeededStore(cfg config.Config, clk clock.Clock) *Store {
	store := NewStore(clk)
	if cfg.SeedDemoComments {
		store.Seed()
	}
	return store
}

var Module = fx.Module("comment",
	fx.Provide(newSeededStore),
)
