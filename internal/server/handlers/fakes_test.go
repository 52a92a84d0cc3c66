package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bizdir/backend/internal/businesses"
	"github.com/bizdir/backend/internal/store"
)

type fakeStore struct {
	mu        sync.Mutex
	byID      map[string]*businesses.Business
	listCalls int
	err       error
}

func newFakeStore(seed ...businesses.Business) *fakeStore {
	s := &fakeStore{byID: map[string]*businesses.Business{}}
	for i := range seed {
		b := seed[i]
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		s.byID[b.ID] = &b
	}
	return s
}

func (s *fakeStore) FindBySlug(_ context.Context, locality, slug string) (*businesses.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, b := range s.byID {
		if b.Locality == locality && b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, businesses.ErrNotFound
}

func (s *fakeStore) ListByCategory(_ context.Context, locality, category string, limit, offset int) ([]businesses.Business, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, 0, s.err
	}
	var all []businesses.Business
	for _, b := range s.byID {
		if b.Locality == locality && b.Category == category {
			all = append(all, *b)
		}
	}
	total := len(all)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return append([]businesses.Business{}, all[offset:end]...), total, nil
}

func (s *fakeStore) Localities(_ context.Context) ([]businesses.Locality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	counts := map[string]int{}
	for _, b := range s.byID {
		counts[b.Locality]++
	}
	out := []businesses.Locality{}
	for l, n := range counts {
		out = append(out, businesses.Locality{Slug: l, Count: n})
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, nb businesses.NewBusiness) (*businesses.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, b := range s.byID {
		if b.Locality == nb.Locality && b.Slug == nb.Slug {
			return nil, businesses.ErrSlugTaken
		}
	}
	now := time.Now().UTC()
	b := &businesses.Business{
		ID: uuid.NewString(), Slug: nb.Slug, Name: nb.Name, Locality: nb.Locality, Category: nb.Category,
		Description: nb.Description, Phone: nb.Phone, Website: nb.Website, Email: nb.Email,
		Address: nb.Address, ImageURL: nb.ImageURL, CreatedAt: now, UpdatedAt: now,
	}
	s.byID[b.ID] = b
	cp := *b
	return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, id uuid.UUID, p businesses.Patch) (*businesses.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id.String()]
	if !ok {
		return nil, businesses.ErrNotFound
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Phone != nil {
		b.Phone = p.Phone
	}
	if p.Website != nil {
		b.Website = p.Website
	}
	if p.Rating != nil {
		b.Rating = p.Rating
	}
	if p.Verified != nil {
		b.Verified = *p.Verified
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) (*businesses.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id.String()]
	if !ok {
		return nil, businesses.ErrNotFound
	}
	delete(s.byID, id.String())
	return b, nil
}

type fakeCache struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: map[string][]byte{}}
}

func cacheKey(locality, category string, limit, offset int) string {
	return fmt.Sprintf("%s|%s|%d|%d", locality, category, limit, offset)
}

func (c *fakeCache) Get(_ context.Context, locality, category string, limit, offset int, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.pages[cacheKey(locality, category, limit, offset)]
	if !ok {
		return store.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *fakeCache) Put(_ context.Context, locality, category string, limit, offset int, page any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	c.pages[cacheKey(locality, category, limit, offset)] = raw
	return nil
}

func (c *fakeCache) InvalidateLocality(_ context.Context, locality string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, locality)
	for k := range c.pages {
		if len(k) > len(locality) && k[:len(locality)+1] == locality+"|" {
			delete(c.pages, k)
		}
	}
	return nil
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (r *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.revoked[jti] = ttl
	return nil
}
