// Package tenant maps opaque tenant identifiers to per-tenant data handles.
// Each studio gets its own database; nothing below this package ever sees
// which studio a handle belongs to.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studiobook/internal/db"
	"studiobook/internal/store"
)

var ErrUnknownTenant = errors.New("unknown tenant")

type ctxKey string

const tenantCtxKey ctxKey = "tenant"

// WithID stamps the resolved tenant id on the request context.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantCtxKey, id)
}

// IDFromContext returns the tenant id set by the tenant middleware.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantCtxKey).(uuid.UUID)
	return id, ok
}

// Registry opens a connection pool per tenant on first use and hands out the
// storage bound to it. Pools live for the process lifetime.
type Registry struct {
	mu       sync.Mutex
	dsns     map[uuid.UUID]string
	pools    map[uuid.UUID]*pgxpool.Pool
	storages map[uuid.UUID]*store.Storage

	maxConns    int32
	maxIdleTime string
}

func NewRegistry(dsns map[uuid.UUID]string, maxConns int32, maxIdleTime string) *Registry {
	return &Registry{
		dsns:        dsns,
		pools:       make(map[uuid.UUID]*pgxpool.Pool),
		storages:    make(map[uuid.UUID]*store.Storage),
		maxConns:    maxConns,
		maxIdleTime: maxIdleTime,
	}
}

// Storage returns the data handle for id, opening the tenant's pool on the
// first request that touches it.
func (r *Registry) Storage(id uuid.UUID) (*store.Storage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.storages[id]; ok {
		return st, nil
	}

	dsn, ok := r.dsns[id]
	if !ok {
		return nil, ErrUnknownTenant
	}

	pool, err := db.New(dsn, r.maxConns, r.maxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", id, err)
	}

	st := store.NewStorage(pool)
	r.pools[id] = pool
	r.storages[id] = &st
	return &st, nil
}

// Each visits every storage the registry has opened so far. Background jobs
// use it to sweep all live tenants.
func (r *Registry) Each(fn func(id uuid.UUID, st *store.Storage)) {
	r.mu.Lock()
	storages := make(map[uuid.UUID]*store.Storage, len(r.storages))
	for id, st := range r.storages {
		storages[id] = st
	}
	r.mu.Unlock()

	for id, st := range storages {
		fn(id, st)
	}
}

// Close shuts down every pool the registry opened.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pool := range r.pools {
		pool.Close()
		delete(r.pools, id)
		delete(r.storages, id)
	}
}

// ParseDSNMap parses the TENANTS env value, a semicolon-separated list of
// uuid=dsn pairs.
func ParseDSNMap(raw string) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("tenant mapping %q: want uuid=dsn", pair)
		}
		id, err := uuid.Parse(pair[:idx])
		if err != nil {
			return nil, fmt.Errorf("tenant mapping %q: %w", pair, err)
		}
		out[id] = pair[idx+1:]
	}
	return out, nil
}
