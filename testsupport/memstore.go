// Package testsupport provides in-memory stand-ins for the Mongo-backed
// store, for use in service and handler tests.
package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/billow-homes/homes-api/models"
	"github.com/billow-homes/homes-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore keeps homes in insertion order and counts calls per method.
type MemStore struct {
	mu    sync.Mutex
	homes []models.Home
	calls map[string]int

	// Err, when set, is returned by every method.
	Err error
}

func NewMemStore(seed ...models.Home) *MemStore {
	s := &MemStore{calls: make(map[string]int)}
	for _, h := range seed {
		if h.ID.IsZero() {
			h.ID = primitive.NewObjectID()
		}
		s.homes = append(s.homes, h)
	}
	return s
}

// Calls returns how many times method has been invoked.
func (s *MemStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// Homes returns a snapshot of the stored homes.
func (s *MemStore) Homes() []models.Home {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Home(nil), s.homes...)
}

func (s *MemStore) record(method string) error {
	s.calls[method]++
	return s.Err
}

func (s *MemStore) FindByID(_ context.Context, id string) (*models.Home, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("FindByID"); err != nil {
		return nil, err
	}
	for _, h := range s.homes {
		if h.ID.Hex() == id {
			home := h
			return &home, nil
		}
	}
	return nil, fmt.Errorf("home %s: %w", id, models.ErrNotFound)
}

func (s *MemStore) ListPage(_ context.Context, offset, limit int64) ([]models.Home, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListPage"); err != nil {
		return nil, 0, err
	}
	total := int64(len(s.homes))
	out := []models.Home{}
	if offset < 0 || offset >= total || limit <= 0 {
		return out, total, nil
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	out = append(out, s.homes[offset:end]...)
	return out, total, nil
}

// Search scores each home by how many term words appear in its indexed
// fields, highest first.
func (s *MemStore) Search(_ context.Context, term string) ([]models.Home, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Search"); err != nil {
		return nil, err
	}

	words := strings.Fields(strings.ToLower(term))
	out := []models.Home{}
	for _, h := range s.homes {
		text := strings.ToLower(strings.Join([]string{h.Street, h.City, h.State, h.Zip, h.Description}, " "))
		var score float64
		for _, w := range words {
			score += float64(strings.Count(text, w))
		}
		if score > 0 {
			h.Score = score
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *MemStore) Create(_ context.Context, home models.Home) (*models.Home, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Create"); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	home.ID = primitive.NewObjectID()
	home.CreatedAt = now
	home.UpdatedAt = now
	s.homes = append(s.homes, home)
	return &home, nil
}

func (s *MemStore) UpdateByMatch(_ context.Context, match store.Match, patch models.HomePatch) (*models.Home, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateByMatch"); err != nil {
		return nil, err
	}
	for i := range s.homes {
		if s.homes[i].Street == match.Street {
			patch.Apply(&s.homes[i])
			s.homes[i].UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
			home := s.homes[i]
			return &home, nil
		}
	}
	return nil, nil
}

func (s *MemStore) DeleteByMatch(_ context.Context, match store.Match) (*models.Home, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteByMatch"); err != nil {
		return nil, err
	}
	for i, h := range s.homes {
		if h.Street == match.Street {
			s.homes = append(s.homes[:i], s.homes[i+1:]...)
			return &h, nil
		}
	}
	return nil, nil
}

func (s *MemStore) DeleteByID(_ context.Context, id string) (*models.Home, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteByID"); err != nil {
		return nil, err
	}
	for i, h := range s.homes {
		if h.ID.Hex() == id {
			s.homes = append(s.homes[:i], s.homes[i+1:]...)
			return &h, nil
		}
	}
	return nil, nil
}

// Home returns a complete, valid listing on street.
func Home(street string) models.Home {
	return models.Home{
		Price:           325000,
		Street:          street,
		City:            "Springfield",
		State:           "IL",
		Zip:             "62701",
		Lat:             39.78,
		Lon:             -89.65,
		Bedrooms:        3,
		Bathrooms:       2,
		SquareFeet:      1850,
		Description:     "Bright family home near the park",
		Agent:           "Pat Doe",
		AgentPhone:      "555-0100",
		AgentImg:        "https://cdn.example.com/agent.jpg",
		HouseImgMain:    "https://cdn.example.com/main.jpg",
		HouseImgInside1: "https://cdn.example.com/in1.jpg",
		HouseImgInside2: "https://cdn.example.com/in2.jpg",
	}
}
