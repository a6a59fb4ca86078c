// Package store persists campaign leads and the geocode cache behind a
// driver-agnostic interface with Postgres and SQLite backends.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// ErrDuplicateLead is returned by CreateLead when the (campaign_id, address,
// zip_code) unique constraint rejects the insert. Ingestion treats it as
// "already exists": the constraint, not an application lock, serializes
// concurrent pulls racing on the same natural key.
var ErrDuplicateLead = eris.New("store: duplicate lead")

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	// Leads
	LeadExists(ctx context.Context, campaignID int64, address, zipCode string) (bool, error)
	CreateLead(ctx context.Context, lead *model.Lead) error
	ListLeads(ctx context.Context, campaignID int64) ([]model.Lead, error)
	CountLeads(ctx context.Context, campaignID int64) (int, error)

	// Geocode cache
	GetGeocode(ctx context.Context, query string) (*model.GeocodePoint, error)
	PutGeocode(ctx context.Context, point *model.GeocodePoint) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
