package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passivepilot/leadgen-cli/internal/store"
)

func newTestGeocoder(t *testing.T, provider string) *Geocoder {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, provider, nil)
}

func TestStubGeocode_DeterministicAndBounded(t *testing.T) {
	lat1, lon1 := stubGeocode("123 main st austin tx")
	lat2, lon2 := stubGeocode("123 main st austin tx")
	assert.Equal(t, lat1, lat2)
	assert.Equal(t, lon1, lon2)

	lat3, lon3 := stubGeocode("456 oak ave dallas tx")
	assert.False(t, lat1 == lat3 && lon1 == lon3, "distinct queries should not collide")

	for _, q := range []string{"a", "some long query with words", "90210"} {
		lat, lon := stubGeocode(q)
		assert.GreaterOrEqual(t, lat, 24.0)
		assert.Less(t, lat, 49.0)
		assert.GreaterOrEqual(t, lon, -125.0)
		assert.Less(t, lon, -66.0)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123 Main St", "123 main st"},
		{"  123   Main   St  ", "123 main st"},
		{"AUSTIN, TX", "austin, tx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeQuery(tt.in))
	}
}

func TestLookup_CacheFirst(t *testing.T) {
	g := newTestGeocoder(t, "")
	ctx := context.Background()

	first, err := g.Lookup(ctx, "123 Main St Austin TX")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "123 main st austin tx", first.Point.Query)
	assert.Equal(t, ProviderStub, first.Point.Provider)
	assert.NotEmpty(t, first.Point.ID)

	// Different formatting, same normalized key: cache hit.
	second, err := g.Lookup(ctx, "  123  MAIN st  Austin tx ")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Point.Lat, second.Point.Lat)
	assert.Equal(t, first.Point.Lon, second.Point.Lon)
	assert.Equal(t, first.Point.ID, second.Point.ID)
}

func TestLookup_EmptyQuery(t *testing.T) {
	g := newTestGeocoder(t, "")
	_, err := g.Lookup(context.Background(), "   ")
	assert.Error(t, err)
}

func TestLookup_UnsupportedProvider(t *testing.T) {
	g := newTestGeocoder(t, "google")
	_, err := g.Lookup(context.Background(), "123 Main St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestBatchLookup(t *testing.T) {
	g := newTestGeocoder(t, "")
	queries := []string{"1 A St", "2 B St", "3 C St", "1 A St"}

	results, err := g.BatchLookup(context.Background(), queries, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Results are positional; the repeated query resolves identically.
	assert.Equal(t, results[0].Point.Lat, results[3].Point.Lat)
	assert.Equal(t, results[0].Point.Lon, results[3].Point.Lon)
	for i, res := range results {
		assert.NotZero(t, res.Point.Lat, "result %d", i)
	}
}
