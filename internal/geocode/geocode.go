// Package geocode resolves free-text location queries to coordinates.
//
// The only provider today is a deterministic offline stub that hashes the
// query into stable US-bounded coordinates, which is enough for map pinning
// in development without calling a paid API. Results are cached in the store
// keyed by normalized query.
package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/store"
)

// ProviderStub is the deterministic offline geocoder.
const ProviderStub = "stub"

// Result is a geocode lookup outcome; Cached reports whether the point came
// from the cache rather than a fresh computation.
type Result struct {
	Point  model.GeocodePoint `json:"point"`
	Cached bool               `json:"cached"`
}

// Geocoder resolves queries through the cache-first stub pipeline.
type Geocoder struct {
	store    store.Store
	provider string
	log      *zap.Logger
}

// New creates a Geocoder. Only the stub provider is supported; any other name
// fails at lookup time so nobody assumes a real API is being called.
func New(st store.Store, provider string, log *zap.Logger) *Geocoder {
	if provider == "" {
		provider = ProviderStub
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Geocoder{store: st, provider: provider, log: log}
}

// normalizeQuery collapses whitespace and lowercases, so cache keys are
// insensitive to formatting.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// stubGeocode hashes the normalized query into stable coordinates inside
// rough US bounds (lat 24..49, lon -125..-66).
func stubGeocode(q string) (float64, float64) {
	sum := sha256.Sum256([]byte(q))
	h := hex.EncodeToString(sum[:])
	latSeed, _ := strconv.ParseUint(h[:16], 16, 64)
	lonSeed, _ := strconv.ParseUint(h[16:32], 16, 64)
	lat := 24.0 + float64(latSeed%2500000)/2500000*(49.0-24.0)
	lon := -125.0 + float64(lonSeed%5900000)/5900000*(-66.0-(-125.0))
	return math.Round(lat*1e6) / 1e6, math.Round(lon*1e6) / 1e6
}

// Lookup resolves a query, consulting the cache first.
func (g *Geocoder) Lookup(ctx context.Context, query string) (*Result, error) {
	nq := normalizeQuery(query)
	if nq == "" {
		return nil, eris.New("geocode: empty query")
	}

	cached, err := g.store.GetGeocode(ctx, nq)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: cache lookup")
	}
	if cached != nil {
		return &Result{Point: *cached, Cached: true}, nil
	}

	if g.provider != ProviderStub {
		return nil, eris.Errorf("geocode: unsupported provider %q", g.provider)
	}

	lat, lon := stubGeocode(nq)
	point := model.GeocodePoint{
		ID:        uuid.NewString(),
		Query:     nq,
		Provider:  g.provider,
		Lat:       lat,
		Lon:       lon,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.store.PutGeocode(ctx, &point); err != nil {
		return nil, eris.Wrap(err, "geocode: cache write")
	}

	g.log.Debug("geocode: resolved query",
		zap.String("query", nq),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)
	return &Result{Point: point, Cached: false}, nil
}

// BatchLookup resolves queries concurrently with bounded parallelism.
// Results are returned in input order; a failed query fails the batch.
func (g *Geocoder) BatchLookup(ctx context.Context, queries []string, concurrency int) ([]Result, error) {
	if concurrency < 1 {
		concurrency = 4
	}
	results := make([]Result, len(queries))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, q := range queries {
		eg.Go(func() error {
			res, err := g.Lookup(ctx, q)
			if err != nil {
				return eris.Wrapf(err, "geocode: batch query %q", q)
			}
			results[i] = *res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
