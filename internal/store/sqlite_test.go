package store

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_CreateAndListLeads(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := model.Lead{
		CampaignID: 7,
		Address:    "123 Main St",
		City:       "Austin",
		State:      "TX",
		ZipCode:    "78701",
		OwnerName:  "Jane Roe",
		Phone:      "512-555-0100",
	}
	require.NoError(t, s.CreateLead(ctx, &lead))
	assert.NotZero(t, lead.ID)
	assert.Equal(t, model.LeadStatusNew, lead.Status)
	assert.False(t, lead.CreatedAt.IsZero())

	leads, err := s.ListLeads(ctx, 7)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "123 Main St", leads[0].Address)
	assert.Equal(t, "78701", leads[0].ZipCode)
	assert.False(t, leads[0].DNC)

	n, err := s.CountLeads(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_DuplicateLeadRejected(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := model.Lead{CampaignID: 1, Address: "123 Main St", ZipCode: "78701"}
	require.NoError(t, s.CreateLead(ctx, &lead))

	dupe := model.Lead{CampaignID: 1, Address: "123 Main St", ZipCode: "78701"}
	err := s.CreateLead(ctx, &dupe)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrDuplicateLead))

	// Different zip is a different natural key.
	other := model.Lead{CampaignID: 1, Address: "123 Main St", ZipCode: "78702"}
	assert.NoError(t, s.CreateLead(ctx, &other))
}

func TestSQLiteStore_LeadExists(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	exists, err := s.LeadExists(ctx, 1, "123 Main St", "78701")
	require.NoError(t, err)
	assert.False(t, exists)

	lead := model.Lead{CampaignID: 1, Address: "123 Main St", ZipCode: "78701"}
	require.NoError(t, s.CreateLead(ctx, &lead))

	exists, err = s.LeadExists(ctx, 1, "123 Main St", "78701")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.LeadExists(ctx, 2, "123 Main St", "78701")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteStore_GeocodeCache(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	got, err := s.GetGeocode(ctx, "123 main st austin tx")
	require.NoError(t, err)
	assert.Nil(t, got)

	point := model.GeocodePoint{
		Query:     "123 main st austin tx",
		Provider:  "stub",
		Lat:       30.2672,
		Lon:       -97.7431,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.PutGeocode(ctx, &point))
	assert.NotEmpty(t, point.ID)

	got, err = s.GetGeocode(ctx, "123 main st austin tx")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 30.2672, got.Lat, 1e-6)
	assert.InDelta(t, -97.7431, got.Lon, 1e-6)

	// Re-put for the same query is a no-op, not an error.
	again := model.GeocodePoint{Query: "123 main st austin tx", Provider: "stub", Lat: 1, Lon: 1, CreatedAt: time.Now().UTC()}
	assert.NoError(t, s.PutGeocode(ctx, &again))
}
