// Package repository wraps API resources with the optional query cache.
package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/pkg/apiclient"
	"github.com/ping-crm/dashboard/pkg/cache"
)

const (
	organizationsEndpoint = "/api/organizations"
	contactsEndpoint      = "/api/contacts"
)

// Repository reads an entity kind through the cache and writes straight to
// the API, invalidating what the write made stale.
type Repository[T models.Entity] struct {
	resource *apiclient.Resource[T]
	cache    cache.Cache
	kind     string
	logger   *zap.Logger
}

// New creates a repository for kind backed by resource.
func New[T models.Entity](resource *apiclient.Resource[T], c cache.Cache, kind string, logger *zap.Logger) *Repository[T] {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository[T]{resource: resource, cache: c, kind: kind, logger: logger}
}

// NewOrganizations returns the organizations repository.
func NewOrganizations(client *apiclient.Client, c cache.Cache, logger *zap.Logger) *Repository[models.Organization] {
	res := apiclient.NewResource[models.Organization](client, organizationsEndpoint, "organization", "organizations")
	return New(res, c, "organizations", logger)
}

// NewContacts returns the contacts repository.
func NewContacts(client *apiclient.Client, c cache.Cache, logger *zap.Logger) *Repository[models.Contact] {
	res := apiclient.NewResource[models.Contact](client, contactsEndpoint, "contact", "contacts")
	return New(res, c, "contacts", logger)
}

// List returns every entity, searching upstream when term is not empty.
// Only the unfiltered list is cached.
func (r *Repository[T]) List(ctx context.Context, term string) ([]T, error) {
	scope, ok := scopeOf(ctx)
	if term != "" || !ok {
		return r.resource.Search(ctx, term)
	}
	key := cache.Key(scope, r.kind, "list")
	var cached []T
	if r.load(ctx, key, &cached) {
		return cached, nil
	}
	items, err := r.resource.List(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, items)
	return items, nil
}

// Get returns one entity.
func (r *Repository[T]) Get(ctx context.Context, id int) (*T, error) {
	scope, ok := scopeOf(ctx)
	if !ok {
		return r.resource.Get(ctx, id)
	}
	key := cache.Key(scope, r.kind, id)
	var cached T
	if r.load(ctx, key, &cached) {
		return &cached, nil
	}
	item, err := r.resource.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, item)
	return item, nil
}

// Create stores a new entity.
func (r *Repository[T]) Create(ctx context.Context, in apiclient.Fields) (*T, error) {
	item, err := r.resource.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, "list")
	return item, nil
}

// Update changes the given fields of an entity.
func (r *Repository[T]) Update(ctx context.Context, id int, in apiclient.Fields) (*T, error) {
	item, err := r.resource.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, "list", id)
	return item, nil
}

// Delete removes an entity.
func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	if err := r.resource.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, "list", id)
	return nil
}

// scopeOf names the cache namespace of the caller by a digest of its API
// token. Anonymous calls are not cached.
func scopeOf(ctx context.Context) (string, bool) {
	token, ok := apiclient.TokenFromContext(ctx)
	if !ok {
		return "", false
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8]), true
}

func (r *Repository[T]) load(ctx context.Context, key string, dst any) bool {
	found, err := r.cache.Get(ctx, key, dst)
	if err != nil {
		r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (r *Repository[T]) store(ctx context.Context, key string, v any) {
	if err := r.cache.Set(ctx, key, v); err != nil {
		r.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops the caller's entries for parts. Other sessions keep theirs
// until the TTL runs out.
func (r *Repository[T]) invalidate(ctx context.Context, parts ...any) {
	scope, ok := scopeOf(ctx)
	if !ok {
		return
	}
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, cache.Key(scope, r.kind, p))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
