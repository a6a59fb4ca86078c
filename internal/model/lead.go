package model

import "time"

// ProviderLead is the canonical normalized property record produced by a
// provider's response normalizer. Every field is nullable: upstream data is
// heterogeneous and partial, and absence must propagate as "unknown" rather
// than zero (a missing bedroom count is not a studio).
type ProviderLead struct {
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zip_code,omitempty"`
	OwnerName *string `json:"owner_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	// Property attributes.
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	Sqft         *int     `json:"sqft,omitempty"`
	LotSize      *int     `json:"lot_size,omitempty"`
	YearBuilt    *int     `json:"year_built,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`

	// Financial attributes.
	EstimatedValue *float64 `json:"estimated_value,omitempty"`
	AssessedValue  *float64 `json:"assessed_value,omitempty"`
	LastSalePrice  *float64 `json:"last_sale_price,omitempty"`
	LastSaleDate   *string  `json:"last_sale_date,omitempty"`

	// Ownership attributes.
	OwnerOccupied  *bool    `json:"owner_occupied,omitempty"`
	AbsenteeOwner  *bool    `json:"absentee_owner,omitempty"`
	EquityPercent  *float64 `json:"equity_percent,omitempty"`
	MortgageAmount *float64 `json:"mortgage_amount,omitempty"`

	// Opaque upstream identifier.
	ProviderID *string `json:"provider_id,omitempty"`

	// Original payload, retained for debugging. Never parsed twice.
	RawData map[string]any `json:"raw_data,omitempty"`
}

// Lead is a persisted campaign lead. Natural key: (CampaignID, Address,
// ZipCode), unique at the storage layer so ingestion stays idempotent across
// repeated provider pulls. ZipCode is stored as "" rather than NULL because
// some stores exclude NULLs from uniqueness checks.
type Lead struct {
	ID         int64  `json:"id"`
	CampaignID int64  `json:"campaign_id"`
	Address    string `json:"address"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	ZipCode    string `json:"zip_code"`
	OwnerName  string `json:"owner_name,omitempty"`
	Phone      string `json:"phone,omitempty"`

	// Workflow fields, mutated by workflow endpoints only, never by the
	// pipeline after creation.
	Status          string     `json:"status"`
	DNC             bool       `json:"dnc"`
	Notes           string     `json:"notes,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// LeadStatusNew is the initial workflow status for freshly ingested leads.
const LeadStatusNew = "new"
