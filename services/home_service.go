package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/billow-homes/homes-api/cache"
	"github.com/billow-homes/homes-api/models"
	"github.com/billow-homes/homes-api/store"
)

// DefaultCacheTTL is how long a single home stays cached.
const DefaultCacheTTL = 86400 * time.Second

// HomeStore is the persistence the service needs. *store.HomeStore is the
// production implementation.
type HomeStore interface {
	FindByID(ctx context.Context, id string) (*models.Home, error)
	ListPage(ctx context.Context, offset, limit int64) ([]models.Home, int64, error)
	Search(ctx context.Context, term string) ([]models.Home, error)
	Create(ctx context.Context, home models.Home) (*models.Home, error)
	UpdateByMatch(ctx context.Context, match store.Match, patch models.HomePatch) (*models.Home, error)
	DeleteByMatch(ctx context.Context, match store.Match) (*models.Home, error)
	DeleteByID(ctx context.Context, id string) (*models.Home, error)
}

type Options struct {
	CacheTTL         time.Duration
	StoreTimeout     time.Duration
	CacheTimeout     time.Duration
	DefaultPageLimit int
	MaxPageLimit     int
}

func DefaultOptions() Options {
	return Options{
		CacheTTL:         DefaultCacheTTL,
		StoreTimeout:     5 * time.Second,
		CacheTimeout:     500 * time.Millisecond,
		DefaultPageLimit: 10,
		MaxPageLimit:     100,
	}
}

// HomeService is the request-facing contract around the Home entity: a
// read-through cache for single lookups, paginated listing, ranked search
// and allow-listed partial updates. Every mutation of a known home drops
// that home's cache entry.
type HomeService struct {
	store HomeStore
	cache cache.Cache
	opts  Options
}

func NewHomeService(s HomeStore, c cache.Cache, opts Options) *HomeService {
	if c == nil {
		c = cache.NopCache{}
	}
	def := DefaultOptions()
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = def.StoreTimeout
	}
	if opts.CacheTimeout <= 0 {
		opts.CacheTimeout = def.CacheTimeout
	}
	if opts.DefaultPageLimit <= 0 {
		opts.DefaultPageLimit = def.DefaultPageLimit
	}
	if opts.MaxPageLimit <= 0 {
		opts.MaxPageLimit = def.MaxPageLimit
	}
	return &HomeService{store: s, cache: c, opts: opts}
}

// Get looks the home up in the cache first and falls back to the store on
// a miss, populating the cache on the way out. Cache failures never fail
// the request.
func (s *HomeService) Get(ctx context.Context, id string) (*models.Home, error) {
	key := cache.HomeKey(id)

	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	home, err := s.store.FindByID(storeCtx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, home)
	return home, nil
}

func (s *HomeService) List(ctx context.Context, page, limit int) (models.Page, error) {
	w := NewWindow(page, limit, s.opts.DefaultPageLimit, s.opts.MaxPageLimit)

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	homes, total, err := s.store.ListPage(storeCtx, w.Offset, int64(w.Limit))
	if err != nil {
		return models.Page{}, err
	}
	return w.Result(homes, total), nil
}

// Search returns homes ranked by text relevance. An empty result is a nil
// error with zero homes.
func (s *HomeService) Search(ctx context.Context, term string) ([]models.Home, error) {
	term = Sanitize(term)
	if term == "" {
		return nil, &models.ValidationError{Message: "search term is required"}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	homes, err := s.store.Search(storeCtx, term)
	if err != nil {
		return nil, err
	}
	if homes == nil {
		homes = []models.Home{}
	}
	return homes, nil
}

// Create points the four images at their uploads, validates the listing and
// stores it.
func (s *HomeService) Create(ctx context.Context, home models.Home, files models.UploadedFiles, baseURL string) (*models.Home, error) {
	for field, file := range files {
		home.SetImage(field, PublicURI(baseURL, file.StoragePath))
	}
	if err := home.Validate(); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	return s.store.Create(storeCtx, home)
}

// Update merges patch (plus any uploaded images) into the home on
// streetQuery. A street nothing matches is not an error; the returned home
// is nil in that case.
func (s *HomeService) Update(ctx context.Context, streetQuery string, patch models.HomePatch, files models.UploadedFiles, baseURL string) (*models.Home, error) {
	patch = ReviseImagePaths(files, baseURL, patch)
	street, err := CheckUpdate(streetQuery, patch)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	home, err := s.store.UpdateByMatch(storeCtx, store.Match{Street: street}, patch)
	if err != nil {
		return nil, err
	}
	if home == nil {
		log.Printf("Update matched no home for street %q", street)
		return nil, nil
	}

	s.invalidate(ctx, home.ID.Hex())
	return home, nil
}

// CheckUpdate validates an update request without touching the store and
// returns the sanitized street to match on.
func CheckUpdate(streetQuery string, patch models.HomePatch) (string, error) {
	street := Sanitize(streetQuery)
	if street == "" {
		return "", &models.ValidationError{Message: "streetQuery is required", Fields: map[string]string{"streetQuery": "cannot be blank"}}
	}
	if err := patch.Validate(); err != nil {
		return "", err
	}
	return street, nil
}

// Delete removes the home on streetQuery. A street nothing matches is not an
// error.
func (s *HomeService) Delete(ctx context.Context, streetQuery string) (*models.Home, error) {
	street := Sanitize(streetQuery)
	if street == "" {
		return nil, &models.ValidationError{Message: "streetQuery is required", Fields: map[string]string{"streetQuery": "cannot be blank"}}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	home, err := s.store.DeleteByMatch(storeCtx, store.Match{Street: street})
	if err != nil {
		return nil, err
	}
	if home == nil {
		log.Printf("Delete matched no home for street %q", street)
		return nil, nil
	}

	s.invalidate(ctx, home.ID.Hex())
	return home, nil
}

func (s *HomeService) DeleteByID(ctx context.Context, id string) (*models.Home, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	home, err := s.store.DeleteByID(storeCtx, id)
	if err != nil {
		return nil, err
	}
	if home == nil {
		return nil, fmt.Errorf("home %s: %w", id, models.ErrNotFound)
	}

	s.invalidate(ctx, id)
	return home, nil
}

func (s *HomeService) cacheGet(ctx context.Context, key string) (*models.Home, bool) {
	cacheCtx, cancel := context.WithTimeout(ctx, s.opts.CacheTimeout)
	defer cancel()

	data, err := s.cache.Get(cacheCtx, key)
	if errors.Is(err, cache.ErrMiss) {
		log.Printf("Cache Miss for key: %s", key)
		return nil, false
	}
	if err != nil {
		log.Printf("Cache GET error for key %s, falling back to store: %v", key, err)
		return nil, false
	}

	var home models.Home
	if err := json.Unmarshal(data, &home); err != nil {
		log.Printf("Discarding undecodable cache entry %s: %v", key, err)
		return nil, false
	}
	log.Printf("Cache Hit for key: %s", key)
	return &home, true
}

func (s *HomeService) cacheSet(ctx context.Context, key string, home *models.Home) {
	data, err := json.Marshal(home)
	if err != nil {
		log.Printf("Failed to serialize home for key %s: %v", key, err)
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.opts.CacheTimeout)
	defer cancel()
	if err := s.cache.Set(cacheCtx, key, data, s.opts.CacheTTL); err != nil {
		log.Printf("Failed to cache home for key %s: %v", key, err)
	}
}

func (s *HomeService) invalidate(ctx context.Context, id string) {
	key := cache.HomeKey(id)

	cacheCtx, cancel := context.WithTimeout(ctx, s.opts.CacheTimeout)
	defer cancel()
	if err := s.cache.Delete(cacheCtx, key); err != nil {
		log.Printf("Failed to invalidate cache key %s: %v", key, err)
	}
}
