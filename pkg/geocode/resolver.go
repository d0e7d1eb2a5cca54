package geocode

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils/cache/ttlcache"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils/resolver"
)

// coordKey is the coarse cache key for reverse lookups: coordinates
// rounded to four decimals (roughly 11m) so nearby requests share one
// cache entry and one outbound call.
type coordKey struct {
	lat float64
	lon float64
}

func keyFor(p model.GeoPoint) coordKey {
	return coordKey{
		lat: math.Round(p.Latitude*1e4) / 1e4,
		lon: math.Round(p.Longitude*1e4) / 1e4,
	}
}

func (k coordKey) String() string {
	return fmt.Sprintf("%.4f,%.4f", k.lat, k.lon)
}

// AddressResolver resolves the display address for a sample with this
// fallback chain: stored address text, cached/concurrency-gated reverse
// geocoding, plain coordinate text. It is safe for concurrent use.
type AddressResolver struct {
	bounded *resolver.Bounded[coordKey, string]
	l       *log.Logger
}

type ResolverOption func(cfg *resolverConfig)

type resolverConfig struct {
	client        *Client
	cacheTTL      time.Duration
	maxConcurrent int
	l             *log.Logger
}

func WithGeocodeClient(client *Client) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.client = client
	}
}

func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.cacheTTL = ttl
	}
}

// WithMaxConcurrent caps concurrent reverse geocoding calls (0 = unlimited).
func WithMaxConcurrent(n int) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.maxConcurrent = n
	}
}

func WithResolverLogger(l *log.Logger) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.l = l
	}
}

func NewAddressResolver(opts ...ResolverOption) *AddressResolver {
	cfg := &resolverConfig{
		client:        NewClient(),
		cacheTTL:      24 * time.Hour,
		maxConcurrent: 2,
		l:             log.Default().Named("geocode"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client := cfg.client
	compute := func(ctx context.Context, key coordKey) (*string, error) {
		addr, err := client.Reverse(ctx, model.GeoPoint{Latitude: key.lat, Longitude: key.lon})
		if err != nil {
			return nil, err
		}
		return &addr, nil
	}
	return &AddressResolver{
		bounded: resolver.New[coordKey, string](
			resolver.WithCache[coordKey, string](
				ttlcache.New[coordKey, string](
					ttlcache.WithExpiration[coordKey, string](cfg.cacheTTL),
					ttlcache.WithLogger[coordKey, string](cfg.l))),
			resolver.WithMaxConcurrent[coordKey, string](cfg.maxConcurrent),
			resolver.WithCompute[coordKey, string](compute),
			resolver.WithLogger[coordKey, string](cfg.l),
		),
		l: cfg.l,
	}
}

// ResolveSample resolves the address for one sample. Returns "" only if
// neither a stored address nor a coordinate is available.
func (r *AddressResolver) ResolveSample(ctx context.Context, sample model.Sample) string {
	return r.Resolve(ctx, sample.Address, sample.Point)
}

func (r *AddressResolver) Resolve(ctx context.Context, stored string, p model.GeoPoint) string {
	if normalized := NormalizeAddress(stored); normalized != "" {
		return normalized
	}
	if p.Valid() {
		if resolved := r.bounded.Resolve(ctx, keyFor(p)); resolved != nil {
			return *resolved
		}
		return fmt.Sprintf("%.5f, %.5f", p.Latitude, p.Longitude)
	}
	return ""
}
