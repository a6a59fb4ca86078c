package model

import "encoding/json"

// FilterSpec is the unified search-constraint language shared by all lead
// providers. Every field is optional: a nil pointer or empty slice means
// "no constraint", never "zero". Each provider translates the spec into its
// own query parameters; unsupported fields are simply ignored.
type FilterSpec struct {
	ZipCodes []string `json:"zip_codes,omitempty"`

	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`

	// Free-text search over owner name / address.
	Query string `json:"q,omitempty"`

	PropertyTypes []string `json:"property_types,omitempty"`

	MinBeds      *int     `json:"min_beds,omitempty"`
	MaxBeds      *int     `json:"max_beds,omitempty"`
	MinBaths     *float64 `json:"min_baths,omitempty"`
	MaxBaths     *float64 `json:"max_baths,omitempty"`
	MinSqft      *int     `json:"min_sqft,omitempty"`
	MaxSqft      *int     `json:"max_sqft,omitempty"`
	MinLotSize   *int     `json:"min_lot_size,omitempty"`
	MaxLotSize   *int     `json:"max_lot_size,omitempty"`
	MinYearBuilt *int     `json:"min_year_built,omitempty"`
	MaxYearBuilt *int     `json:"max_year_built,omitempty"`

	MinEquityPercent *int `json:"min_equity_percent,omitempty"`

	// Tri-state: true = absentee only, false = owner-occupied only,
	// nil = no constraint.
	AbsenteeOwner *bool `json:"absentee_owner,omitempty"`
}

// ParseFilterSpec decodes a stored filter-spec JSON string. Campaigns persist
// their saved filters as JSON; a missing or malformed value degrades to an
// empty spec rather than failing the run.
func ParseFilterSpec(jsonStr string) *FilterSpec {
	if jsonStr == "" {
		return &FilterSpec{}
	}
	var spec FilterSpec
	if err := json.Unmarshal([]byte(jsonStr), &spec); err != nil {
		return &FilterSpec{}
	}
	return &spec
}

// DumpFilterSpec serializes a spec for storage. Absent fields are omitted so
// the saved JSON stays clean.
func DumpFilterSpec(spec *FilterSpec) string {
	if spec == nil {
		return "{}"
	}
	data, err := json.Marshal(spec)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// MergeZip returns a copy of the spec with an ad-hoc zip code appended to
// ZipCodes, preserving order and skipping duplicates. A nil receiver yields a
// spec containing only the zip.
func (f *FilterSpec) MergeZip(zip string) *FilterSpec {
	var out FilterSpec
	if f != nil {
		out = *f
		out.ZipCodes = append([]string(nil), f.ZipCodes...)
	}
	if zip == "" {
		return &out
	}
	for _, z := range out.ZipCodes {
		if z == zip {
			return &out
		}
	}
	out.ZipCodes = append(out.ZipCodes, zip)
	return &out
}
