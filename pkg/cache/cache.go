// Package cache is an optional read-through layer for API queries.
// Every implementation may forget anything at any time; callers must treat
// a miss, or an error, as "fetch from the API".
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores JSON-serialisable values by key.
type Cache interface {
	// Get loads key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// Key builds the cache key of an entity kind and a discriminator (an id or
// "list") inside the namespace of one user, so nothing cached for one
// session is served to another.
func Key(scope, kind string, part any) string {
	return fmt.Sprintf("crm:%s:%s:%v", scope, kind, part)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) Delete(context.Context, ...string) error        { return nil }

// DefaultTTL is used when a driver is created with a non-positive TTL.
const DefaultTTL = time.Minute
