package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/passivepilot/leadgen-cli/internal/db"
	"github.com/passivepilot/leadgen-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection; lead
// existence checks and inserts dominate ingestion traffic.
var preparedStatements = map[string]string{
	"lead_exists": `SELECT 1 FROM leads WHERE campaign_id = $1 AND address = $2 AND zip_code = $3`,
	"insert_lead": `INSERT INTO leads (campaign_id, address, city, state, zip_code, owner_name, phone, status, dnc, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
	"count_leads": `SELECT count(*) FROM leads WHERE campaign_id = $1`,
	"get_geocode": `SELECT id, query, provider, lat, lon, created_at FROM geocode_cache WHERE query = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// The unique index on (campaign_id, address, zip_code) is the correctness
// mechanism for ingestion dedup, not a performance index: concurrent pulls
// racing past the pre-check are serialized here.
const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                BIGSERIAL PRIMARY KEY,
	campaign_id       BIGINT NOT NULL,
	address           TEXT NOT NULL,
	city              TEXT,
	state             TEXT,
	zip_code          TEXT NOT NULL DEFAULT '',
	owner_name        TEXT,
	phone             TEXT,
	status            TEXT NOT NULL DEFAULT 'new',
	dnc               BOOLEAN NOT NULL DEFAULT false,
	notes             TEXT,
	last_contacted_at TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_leads_campaign_address_zip
	ON leads(campaign_id, address, zip_code);

CREATE INDEX IF NOT EXISTS idx_leads_campaign_id ON leads(campaign_id);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);

CREATE TABLE IF NOT EXISTS geocode_cache (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL UNIQUE,
	provider   TEXT NOT NULL,
	lat        DOUBLE PRECISION NOT NULL,
	lon        DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_geocode_cache_query ON geocode_cache(query);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) LeadExists(ctx context.Context, campaignID int64, address, zipCode string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM leads WHERE campaign_id = $1 AND address = $2 AND zip_code = $3`,
		campaignID, address, zipCode,
	).Scan(&one)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, eris.Wrap(err, "postgres: lead exists")
	}
	return true, nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.Lead) error {
	now := time.Now().UTC()
	status := lead.Status
	if status == "" {
		status = model.LeadStatusNew
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO leads (campaign_id, address, city, state, zip_code, owner_name, phone, status, dnc, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		lead.CampaignID, lead.Address, lead.City, lead.State, lead.ZipCode,
		lead.OwnerName, lead.Phone, status, lead.DNC, now,
	).Scan(&lead.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateLead
		}
		return eris.Wrap(err, "postgres: insert lead")
	}

	lead.Status = status
	lead.CreatedAt = now
	return nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, campaignID int64) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, campaign_id, address, COALESCE(city, ''), COALESCE(state, ''), zip_code,
		        COALESCE(owner_name, ''), COALESCE(phone, ''), status, dnc, COALESCE(notes, ''),
		        last_contacted_at, created_at
		 FROM leads WHERE campaign_id = $1 ORDER BY id`,
		campaignID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
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
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

func (s *PostgresStore) CountLeads(ctx context.Context, campaignID int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM leads WHERE campaign_id = $1`,
		campaignID,
	).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: count leads")
	}
	return n, nil
}

func (s *PostgresStore) GetGeocode(ctx context.Context, query string) (*model.GeocodePoint, error) {
	var p model.GeocodePoint
	err := s.pool.QueryRow(ctx,
		`SELECT id, query, provider, lat, lon, created_at FROM geocode_cache WHERE query = $1`,
		query,
	).Scan(&p.ID, &p.Query, &p.Provider, &p.Lat, &p.Lon, &p.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get geocode")
	}
	return &p, nil
}

func (s *PostgresStore) PutGeocode(ctx context.Context, point *model.GeocodePoint) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO geocode_cache (id, query, provider, lat, lon, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (query) DO NOTHING`,
		point.ID, point.Query, point.Provider, point.Lat, point.Lon, point.CreatedAt,
	)
	return eris.Wrap(err, "postgres: put geocode")
}
