// Package clientdata is the two-tier cache in front of the market data
// gateway: a short-lived in-process tier backed by one JSON document per key
// on disk.
//
// Reads go memory, then file, then miss. A fresh file hit is promoted back
// into memory; a successful upstream fetch writes both tiers. A stale file
// is kept as a fallback for when the upstream fetch fails. Lookups never do
// network I/O.
package clientdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrMiss is returned by Get when no fresh payload exists.
var ErrMiss = errors.New("cache miss")

// Options configures a Repository.
type Options struct {
	Dir        string
	Policies   map[Kind]Policy
	Clock      Clock
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// Repository is the layered cache. It is safe for concurrent use; the
// last writer wins on a given key. Concurrent GetOrFetch misses on one key
// share a single upstream fetch.
type Repository struct {
	memory   *MemoryTier
	files    *FileTier
	policies map[Kind]Policy
	metrics  *Metrics
	flight   singleflight.Group
	log      zerolog.Logger
}

// Result carries a lookup payload and the state that produced it.
// Payload is set for MemoryHit, FileHit and Stale.
type Result struct {
	Payload []byte
	State   State
}

// NewRepository creates the file tier directory and both tiers.
func NewRepository(opts Options) (*Repository, error) {
	policies := DefaultPolicies()
	for kind, p := range opts.Policies {
		policies[kind] = p
	}

	files, err := NewFileTier(opts.Dir, opts.Clock)
	if err != nil {
		return nil, err
	}

	var retention time.Duration
	for _, p := range policies {
		if p.Memory > retention {
			retention = p.Memory
		}
	}

	return &Repository{
		memory:   NewMemoryTier(2*retention, opts.Clock),
		files:    files,
		policies: policies,
		metrics:  NewMetrics(opts.Registerer),
		log:      opts.Log.With().Str("component", "cache").Logger(),
	}, nil
}

// Policy returns the TTL policy for kind, falling back to the history policy.
func (r *Repository) Policy(kind Kind) Policy {
	if p, ok := r.policies[kind]; ok {
		return p
	}
	return r.policies[KindHistory]
}

// Lookup resolves key through both tiers.
func (r *Repository) Lookup(key string) Result {
	kind := KindOf(key)
	policy := r.Policy(kind)

	if payload, ok := r.memory.Get(key, policy.Memory); ok {
		r.metrics.recordLookup(kind, MemoryHit)
		return Result{Payload: payload, State: MemoryHit}
	}

	payload, fileState := r.files.Get(key, policy.File)
	if fileState == FileCorrupt {
		r.metrics.corrupt.Inc()
		r.log.Debug().Str("key", key).Msg("Corrupt cache document treated as miss")
	}

	state := Resolve(false, fileState)
	if state == FileHit {
		r.memory.Set(key, payload)
	}
	r.metrics.recordLookup(kind, state)

	if state == Miss {
		return Result{State: Miss}
	}
	return Result{Payload: payload, State: state}
}

// Get returns a fresh payload or ErrMiss.
func (r *Repository) Get(key string) ([]byte, error) {
	res := r.Lookup(key)
	if !res.State.Hit() {
		return nil, ErrMiss
	}
	return res.Payload, nil
}

// Set writes payload to both tiers. File tier failures are logged and
// counted; the memory tier still holds the value.
func (r *Repository) Set(key string, payload []byte) {
	r.memory.Set(key, payload)
	if err := r.files.Set(key, payload); err != nil {
		r.metrics.writeErrors.Inc()
		r.log.Warn().Err(err).Str("key", key).Msg("Failed to persist cache document")
	}
}

// Delete removes key from both tiers.
func (r *Repository) Delete(key string) {
	r.memory.Delete(key)
	if err := r.files.Delete(key); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("Failed to delete cache document")
	}
}

// Prune removes file documents older than maxAge.
func (r *Repository) Prune(maxAge time.Duration) (int, error) {
	return r.files.Prune(maxAge)
}

// GetOrFetch decodes a fresh cached value for key or calls fetch on a miss.
// Callers missing the same key at the same time wait on one fetch, and a
// caller that joins after it finished reads the value it wrote. A
// successful fetch is written to both tiers. When fetch fails and a stale
// document exists, the stale value is returned without error.
func GetOrFetch[T any](r *Repository, key string, fetch func() (T, error)) (T, State, error) {
	var value T
	res := r.Lookup(key)

	if res.State.Hit() {
		if err := json.Unmarshal(res.Payload, &value); err == nil {
			return value, res.State, nil
		}
		r.metrics.corrupt.Inc()
		r.log.Debug().Str("key", key).Msg("Undecodable cache payload treated as miss")
		res = Result{State: Miss}
		value = *new(T)
	}

	shared, err, joined := r.flight.Do(key, func() (any, error) {
		if cached, ok := r.peek(key); ok {
			var v T
			if json.Unmarshal(cached, &v) == nil {
				return v, nil
			}
		}
		return r.refresh(key, func() (any, error) { return fetch() })
	})
	if joined {
		r.metrics.sharedFetches.Inc()
	}
	if err == nil {
		if fresh, ok := shared.(T); ok {
			return fresh, res.State, nil
		}
		// Another caller fetched key into a different type; decode its copy.
		if cached, ok := r.peek(key); ok && json.Unmarshal(cached, &value) == nil {
			return value, res.State, nil
		}
		value = *new(T)
		err = fmt.Errorf("cache key %s shared with an incompatible type", key)
	}

	if res.State == Stale {
		if uErr := json.Unmarshal(res.Payload, &value); uErr == nil {
			r.log.Warn().Err(err).Str("key", key).Msg("Upstream fetch failed, serving stale cache")
			return value, Stale, nil
		}
		value = *new(T)
	}

	return value, res.State, err
}

// refresh calls fetch once and writes a successful result to both tiers.
func (r *Repository) refresh(key string, fetch func() (any, error)) (any, error) {
	fresh, err := fetch()
	r.metrics.recordFetch(KindOf(key), err)
	if err != nil {
		return nil, err
	}
	payload, mErr := json.Marshal(fresh)
	if mErr != nil {
		r.log.Warn().Err(mErr).Str("key", key).Msg("Failed to encode cache payload")
	} else {
		r.Set(key, payload)
	}
	return fresh, nil
}

// peek returns a fresh payload without touching lookup metrics or
// promoting between tiers.
func (r *Repository) peek(key string) ([]byte, bool) {
	policy := r.Policy(KindOf(key))
	if payload, ok := r.memory.Get(key, policy.Memory); ok {
		return payload, true
	}
	if payload, state := r.files.Get(key, policy.File); state == FileFresh {
		return payload, true
	}
	return nil, false
}
