// Package cache is the Request Cache of spec §4.8: a process-local keyed
// store sitting in front of the pipeline pool, with an optional distributed
// Redis tier keyed identically. Grounded on the original Rust generator's
// cache/mod.rs (fingerprint construction) and cache/distributed.rs (the
// Redis tier's config, key prefixing and stats counters); the local tier's
// hit-count eviction policy has no surviving Rust source (memory.rs/redis.rs
// were not carried into the retrieval pack) and is built from spec prose
// alone.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goccyjson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/qrengine/qrcodeengine/internal/logging"
	"github.com/qrengine/qrcodeengine/internal/model"
)

// Artifact is a cached generation result (spec §3's Cached Artifact row):
// the rendered payload (an svg string or a *render.Enhanced, opaque to this
// package) plus the metadata needed to answer a cache hit without
// re-deriving anything from the matrix.
type Artifact struct {
	Data            any           `json:"data"`
	Version         int           `json:"version"`
	Modules         int           `json:"modules"`
	ErrorCorrection string        `json:"error_correction"`
	QualityScore    float64       `json:"quality_score"`
	ProcessingTime  time.Duration `json:"processing_time"`
	GeneratedAt     time.Time     `json:"generated_at"`
	Cached          bool          `json:"cached"`
}

// Fingerprint computes fp = sha256(payload || size.le_bytes ||
// serialize(customization)) truncated to the first 8 bytes (16 hex chars),
// per spec §4.8. Collisions are acceptable: the cache is advisory.
func Fingerprint(payload string, size int, customization *model.Customization) (string, error) {
	h := sha256.New()
	h.Write([]byte(payload))

	var sizeBuf [8]byte
	for i := 0; i < 8; i++ {
		sizeBuf[i] = byte(size >> (8 * i))
	}
	h.Write(sizeBuf[:])

	if customization != nil {
		enc, err := goccyjson.Marshal(customization)
		if err != nil {
			return "", fmt.Errorf("cache: serialize customization: %w", err)
		}
		h.Write(enc)
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8]), nil
}

// Key builds the external cache key string of spec §6.5:
// "qrv3:<payload_sha256_hex>:<ecl_letter>:<json_customization>" for SVG
// outputs, "qrv3e:…" when enhanced is set (the Enhanced structured output).
func Key(payload string, eclLetter string, customization *model.Customization, enhanced bool) (string, error) {
	sum := sha256.Sum256([]byte(payload))
	enc, err := goccyjson.Marshal(customization)
	if err != nil {
		return "", fmt.Errorf("cache: serialize customization: %w", err)
	}
	prefix := "qrv3"
	if enhanced {
		prefix = "qrv3e"
	}
	return fmt.Sprintf("%s:%s:%s:%s", prefix, hex.EncodeToString(sum[:]), eclLetter, enc), nil
}

type localEntry struct {
	artifact  Artifact
	hitCount  uint64
	insertSeq uint64
}

// Local is the process-local tier: a map guarded by a single read-write
// lock (readers parallel, writers exclusive, per spec §5's shared-resource
// note). Eviction fires on an insert that would exceed maxSize and removes
// the entry with the lowest hit_count, breaking ties by earliest insertion
// order (spec §4.8).
type Local struct {
	mu      sync.RWMutex
	entries map[string]*localEntry
	maxSize int
	nextSeq uint64
	log     *slog.Logger
}

// NewLocal creates a local tier capped at maxSize entries. maxSize <= 0
// falls back to 1000.
func NewLocal(maxSize int) *Local {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Local{
		entries: make(map[string]*localEntry),
		maxSize: maxSize,
		log:     logging.Named("cache.local"),
	}
}

// Get looks up key, incrementing its hit_count on a hit. The returned
// Artifact has Cached set to true.
func (c *Local) Get(key string) (Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Artifact{}, false
	}
	e.hitCount++
	out := e.artifact
	out.Cached = true
	return out, true
}

// Put inserts or overwrites key. A new key that would exceed maxSize first
// evicts the least-used existing entry.
func (c *Local) Put(key string, artifact Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	artifact.Cached = false
	seq := c.nextSeq
	c.nextSeq++
	c.entries[key] = &localEntry{artifact: artifact, insertSeq: seq}
}

func (c *Local) evictLocked() {
	var victimKey string
	var victim *localEntry
	for k, e := range c.entries {
		if victim == nil ||
			e.hitCount < victim.hitCount ||
			(e.hitCount == victim.hitCount && e.insertSeq < victim.insertSeq) {
			victim, victimKey = e, k
		}
	}
	if victim != nil {
		delete(c.entries, victimKey)
		c.log.Debug("evicted local cache entry", "key", victimKey, "hit_count", victim.hitCount)
	}
}

// Len reports the current entry count.
func (c *Local) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisMode selects how the distributed tier connects. Only Standalone is
// implemented; Cluster and Sentinel are accepted by DistributedConfig but
// rejected at construction, mirroring the original generator's own
// "not implemented yet, use standalone" guard.
type RedisMode int8

const (
	RedisStandalone RedisMode = iota
	RedisCluster
	RedisSentinel
)

func (m RedisMode) String() string {
	switch m {
	case RedisCluster:
		return "cluster"
	case RedisSentinel:
		return "sentinel"
	default:
		return "standalone"
	}
}

// DistributedConfig configures the Redis-backed second tier (spec §4.8).
type DistributedConfig struct {
	Mode              RedisMode
	URL               string   // Standalone only.
	Nodes             []string // Cluster only; unimplemented.
	Prefix            string
	TTL               time.Duration
	MaxConnections    int
	ConnectionTimeout time.Duration
	WarmCache         bool
	EnableStats       bool
}

// DefaultDistributedConfig mirrors the teacher source's Default impl:
// localhost standalone, prefix "qr_engine_v2", 3600s TTL, 10 connections,
// stats enabled, cache warming disabled.
func DefaultDistributedConfig() DistributedConfig {
	return DistributedConfig{
		Mode:              RedisStandalone,
		URL:               "redis://localhost:6379",
		Prefix:            "qr_engine_v2",
		TTL:               3600 * time.Second,
		MaxConnections:    10,
		ConnectionTimeout: 5 * time.Second,
		WarmCache:         false,
		EnableStats:       true,
	}
}

// Distributed is the Redis-backed tier. A disabled instance (see
// NewDisabledDistributed) answers every call as a no-op miss, so the engine
// facade never needs a nil check when no distributed tier is configured.
type Distributed struct {
	config  DistributedConfig
	client  *redis.Client
	enabled bool
	log     *slog.Logger
}

// NewDistributed dials Redis per config and pings it once to fail fast on a
// bad URL. Only RedisStandalone is supported today.
func NewDistributed(ctx context.Context, config DistributedConfig) (*Distributed, error) {
	if config.Mode != RedisStandalone {
		return nil, fmt.Errorf("cache: %s mode not implemented yet, use standalone", config.Mode)
	}

	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	opts.PoolSize = config.MaxConnections
	opts.DialTimeout = config.ConnectionTimeout
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, config.ConnectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}

	return &Distributed{
		config:  config,
		client:  client,
		enabled: true,
		log:     logging.Named("cache.distributed"),
	}, nil
}

// NewDisabledDistributed returns a tier that never connects and always
// misses, for tests and for deployments with no Redis configured.
func NewDisabledDistributed() *Distributed {
	return &Distributed{
		config: DefaultDistributedConfig(),
		log:    logging.Named("cache.distributed"),
	}
}

func (d *Distributed) makeKey(key string) string {
	return fmt.Sprintf("%s:%s", d.config.Prefix, key)
}

// Get fetches and deserializes a cached artifact. Any failure, including a
// disabled tier, is treated as a miss.
func (d *Distributed) Get(ctx context.Context, key string) (Artifact, bool) {
	if !d.enabled {
		return Artifact{}, false
	}
	raw, err := d.client.Get(ctx, d.makeKey(key)).Bytes()
	if err != nil {
		d.log.Debug("distributed cache miss", "key", key, "error", err)
		d.incrementStat(ctx, "misses")
		return Artifact{}, false
	}
	var a Artifact
	if err := goccyjson.Unmarshal(raw, &a); err != nil {
		d.log.Warn("failed to deserialize cached artifact", "key", key, "error", err)
		return Artifact{}, false
	}
	d.incrementStat(ctx, "hits")
	a.Cached = true
	return a, true
}

// Set stores artifact under key with the tier's configured TTL. A write
// failure is logged and swallowed: per spec §4.8 a failed distributed write
// never fails the request.
func (d *Distributed) Set(ctx context.Context, key string, artifact Artifact) {
	if !d.enabled {
		return
	}
	artifact.Cached = false
	data, err := goccyjson.Marshal(artifact)
	if err != nil {
		d.log.Warn("failed to serialize artifact for distributed cache", "key", key, "error", err)
		return
	}
	if err := d.client.Set(ctx, d.makeKey(key), data, d.config.TTL).Err(); err != nil {
		d.log.Warn("distributed cache write failed", "key", key, "error", err)
		return
	}
	d.incrementStat(ctx, "sets")
}

// Delete removes a single cache entry.
func (d *Distributed) Delete(ctx context.Context, key string) {
	if !d.enabled {
		return
	}
	if err := d.client.Del(ctx, d.makeKey(key)).Err(); err != nil {
		d.log.Warn("distributed cache delete failed", "key", key, "error", err)
	}
}

// ClearPattern deletes every key matching prefix:pattern*, SCAN-ing in
// batches of 100 rather than KEYS, matching the original source's approach
// for large keyspaces.
func (d *Distributed) ClearPattern(ctx context.Context, pattern string) (int, error) {
	if !d.enabled {
		return 0, nil
	}
	fullPattern := fmt.Sprintf("%s:%s*", d.config.Prefix, pattern)
	var cursor uint64
	var count int
	for {
		keys, next, err := d.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			return count, fmt.Errorf("cache: scan: %w", err)
		}
		if len(keys) > 0 {
			if err := d.client.Del(ctx, keys...).Err(); err != nil {
				return count, fmt.Errorf("cache: delete matched keys: %w", err)
			}
			count += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Stats reports the distributed tier's key count and hit/miss counters.
type Stats struct {
	TotalKeys int
	Prefix    string
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Mode      string
}

// Stats scans the keyspace for the configured prefix and reads the
// Redis-INCR-based hit/miss counters.
func (d *Distributed) Stats(ctx context.Context) (Stats, error) {
	if !d.enabled {
		return Stats{}, nil
	}
	pattern := fmt.Sprintf("%s:*", d.config.Prefix)
	var cursor uint64
	var keyCount int
	for {
		keys, next, err := d.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return Stats{}, fmt.Errorf("cache: scan: %w", err)
		}
		keyCount += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	var hits, misses uint64
	if d.config.EnableStats {
		hits = d.getStat(ctx, "hits")
		misses = d.getStat(ctx, "misses")
	}
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return Stats{
		TotalKeys: keyCount,
		Prefix:    d.config.Prefix,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Mode:      d.config.Mode.String(),
	}, nil
}

func (d *Distributed) incrementStat(ctx context.Context, stat string) {
	if !d.config.EnableStats {
		return
	}
	if err := d.client.Incr(ctx, fmt.Sprintf("%s:stats:%s", d.config.Prefix, stat)).Err(); err != nil {
		d.log.Debug("failed to increment cache stat", "stat", stat, "error", err)
	}
}

func (d *Distributed) getStat(ctx context.Context, stat string) uint64 {
	v, err := d.client.Get(ctx, fmt.Sprintf("%s:stats:%s", d.config.Prefix, stat)).Uint64()
	if err != nil {
		return 0
	}
	return v
}

// RequestCache is the façade the Engine Facade calls: a local tier in front
// of an optional distributed tier, keyed identically (spec §4.8).
type RequestCache struct {
	local       *Local
	distributed *Distributed
}

// New builds a RequestCache. Pass nil for distributed to run local-only.
func New(maxLocalEntries int, distributed *Distributed) *RequestCache {
	if distributed == nil {
		distributed = NewDisabledDistributed()
	}
	return &RequestCache{local: NewLocal(maxLocalEntries), distributed: distributed}
}

// Lookup checks the local tier first, then the distributed tier, promoting
// a distributed hit back into the local tier so later requests in this
// process stay local.
func (rc *RequestCache) Lookup(ctx context.Context, key string) (Artifact, bool) {
	if a, ok := rc.local.Get(key); ok {
		return a, true
	}
	if a, ok := rc.distributed.Get(ctx, key); ok {
		rc.local.Put(key, a)
		return a, true
	}
	return Artifact{}, false
}

// Store inserts artifact into both tiers. The distributed write is
// best-effort and never blocks the caller on failure.
func (rc *RequestCache) Store(ctx context.Context, key string, artifact Artifact) {
	rc.local.Put(key, artifact)
	rc.distributed.Set(ctx, key, artifact)
}

// LocalTier exposes the process-local tier directly, for callers (e.g. the
// optimizer's render cache) that want hit-count eviction without a
// distributed tier.
func (rc *RequestCache) LocalTier() *Local {
	return rc.local
}
