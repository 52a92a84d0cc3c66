package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// ListingCache keeps rendered category listing pages in Redis. Each locality
// has a generation counter; bumping it orphans every cached page of that
// locality, which then expires on its own TTL.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

func (s *ListingCache) genKey(locality string) string { return "listing:gen:" + locality }

func listingKey(locality string, gen int64, category string, limit, offset int) string {
	return fmt.Sprintf("listing:%s:%d:%s:%d:%d", locality, gen, category, limit, offset)
}

func (s *ListingCache) generation(ctx context.Context, locality string) (int64, error) {
	gen, err := s.rdb.Get(ctx, s.genKey(locality)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get decodes a cached page into dst or returns ErrCacheMiss.
func (s *ListingCache) Get(ctx context.Context, locality, category string, limit, offset int, dst any) error {
	gen, err := s.generation(ctx, locality)
	if err != nil {
		return err
	}
	raw, err := s.rdb.Get(ctx, listingKey(locality, gen, category, limit, offset)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (s *ListingCache) Put(ctx context.Context, locality, category string, limit, offset int, page any) error {
	gen, err := s.generation(ctx, locality)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, listingKey(locality, gen, category, limit, offset), raw, s.ttl).Err()
}

// InvalidateLocality drops every cached page of the locality.
func (s *ListingCache) InvalidateLocality(ctx context.Context, locality string) error {
	return s.rdb.Incr(ctx, s.genKey(locality)).Err()
}
