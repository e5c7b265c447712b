package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"concierge/internal/domain"
)

// DirectoryService is the property directory: MySQL for durability with an
// optional read-through cache in front of lookups.
type DirectoryService struct {
	repo     domain.PropertyRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDirectoryService(r domain.PropertyRepository, c domain.Cache, ttl time.Duration) *DirectoryService {
	return &DirectoryService{repo: r, cache: c, cacheTTL: ttl}
}

func propertyKey(phone string) string { return "property:" + phone }

func (s *DirectoryService) Lookup(ctx context.Context, phone string) (domain.Property, bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return domain.Property{}, false, nil
	}

	key := propertyKey(phone)
	if s.cache != nil {
		var p domain.Property
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, true, nil
		}
	}

	p, ok, err := s.repo.Lookup(ctx, phone)
	if err != nil {
		return domain.Property{}, false, fmt.Errorf("lookup %s: %w", phone, err)
	}
	// misses are not cached so a fresh registration is visible immediately
	if ok && s.cache != nil {
		_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	}
	return p, ok, nil
}

// Register stores a new property. A second registration for the same phone
// number fails with domain.ErrDuplicateKey.
func (s *DirectoryService) Register(ctx context.Context, p domain.Property) error {
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Phone == "" {
		return domain.ErrPhoneRequired
	}
	if err := s.repo.Register(ctx, p); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, propertyKey(p.Phone))
	}
	return nil
}
