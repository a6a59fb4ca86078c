package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	campaign_id       INTEGER NOT NULL,
	address           TEXT NOT NULL,
	city              TEXT,
	state             TEXT,
	zip_code          TEXT NOT NULL DEFAULT '',
	owner_name        TEXT,
	phone             TEXT,
	status            TEXT NOT NULL DEFAULT 'new',
	dnc               INTEGER NOT NULL DEFAULT 0,
	notes             TEXT,
	last_contacted_at DATETIME,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_leads_campaign_address_zip
	ON leads(campaign_id, address, zip_code);

CREATE INDEX IF NOT EXISTS idx_leads_campaign_id ON leads(campaign_id);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);

CREATE TABLE IF NOT EXISTS geocode_cache (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL UNIQUE,
	provider   TEXT NOT NULL,
	lat        REAL NOT NULL,
	lon        REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_geocode_cache_query ON geocode_cache(query);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isSQLiteUniqueViolation matches the driver's unique-constraint error text.
// modernc.org/sqlite does not expose a typed error for SQLITE_CONSTRAINT.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *SQLiteStore) LeadExists(ctx context.Context, campaignID int64, address, zipCode string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM leads WHERE campaign_id = ? AND address = ? AND zip_code = ?`,
		campaignID, address, zipCode,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "sqlite: lead exists")
	}
	return true, nil
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	now := time.Now().UTC()
	status := lead.Status
	if status == "" {
		status = model.LeadStatusNew
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (campaign_id, address, city, state, zip_code, owner_name, phone, status, dnc, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.CampaignID, lead.Address, lead.City, lead.State, lead.ZipCode,
		lead.OwnerName, lead.Phone, status, lead.DNC, now,
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateLead
		}
		return eris.Wrap(err, "sqlite: insert lead")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: last insert id")
	}
	lead.ID = id
	lead.Status = status
	lead.CreatedAt = now
	return nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, campaignID int64) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, campaign_id, address, COALESCE(city, ''), COALESCE(state, ''), zip_code,
		        COALESCE(owner_name, ''), COALESCE(phone, ''), status, dnc, COALESCE(notes, ''),
		        last_contacted_at, created_at
		 FROM leads WHERE campaign_id = ? ORDER BY id`,
		campaignID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(
			&l.ID, &l.CampaignID, &l.Address, &l.City, &l.State, &l.ZipCode,
			&l.OwnerName, &l.Phone, &l.Status, &l.DNC, &l.Notes,
			&l.LastContactedAt, &l.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}
	return leads, nil
}

func (s *SQLiteStore) CountLeads(ctx context.Context, campaignID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM leads WHERE campaign_id = ?`,
		campaignID,
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: count leads")
	}
	return n, nil
}

func (s *SQLiteStore) GetGeocode(ctx context.Context, query string) (*model.GeocodePoint, error) {
	var p model.GeocodePoint
	err := s.db.QueryRowContext(ctx,
		`SELECT id, query, provider, lat, lon, created_at FROM geocode_cache WHERE query = ?`,
		query,
	).Scan(&p.ID, &p.Query, &p.Provider, &p.Lat, &p.Lon, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get geocode")
	}
	return &p, nil
}

func (s *SQLiteStore) PutGeocode(ctx context.Context, point *model.GeocodePoint) error {
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO geocode_cache (id, query, provider, lat, lon, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		point.ID, point.Query, point.Provider, point.Lat, point.Lon, point.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: put geocode")
}
