package provider

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// Provider-side occupancy codes for the tri-state absentee filter.
const (
	occupancyAbsentee = "absentee"
	occupancyOccupied = "occupied"
)

// propertyTypeCodes maps keyword substrings to provider type codes. Providers
// reject unknown codes, so unrecognized type strings are dropped, not
// forwarded.
var propertyTypeCodes = []struct {
	keywords []string
	code     string
}{
	{[]string{"single", "sfr"}, "10"},
	{[]string{"condo"}, "11"},
	{[]string{"townhouse", "town"}, "12"},
	{[]string{"multi", "2-4"}, "13"},
}

// mergeZips combines the ad-hoc zipcode with the filter's zip list,
// deduplicated and in order of first appearance.
func mergeZips(zipcode string, filters *model.FilterSpec) []string {
	var zips []string
	seen := make(map[string]bool)
	add := func(z string) {
		z = strings.TrimSpace(z)
		if z == "" || seen[z] {
			return
		}
		seen[z] = true
		zips = append(zips, z)
	}
	add(zipcode)
	if filters != nil {
		for _, z := range filters.ZipCodes {
			add(z)
		}
	}
	return zips
}

// clampLimit bounds the page size to [1, 500].
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 500 {
		return 500
	}
	return limit
}

// translatePropertyTypes maps free-form type strings to provider codes,
// case-insensitively by keyword substring. Unrecognized types are dropped.
func translatePropertyTypes(types []string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		for _, entry := range propertyTypeCodes {
			for _, kw := range entry.keywords {
				if strings.Contains(t, kw) {
					if !seen[entry.code] {
						seen[entry.code] = true
						codes = append(codes, entry.code)
					}
					goto next
				}
			}
		}
	next:
	}
	return codes
}

// translateFilters builds the provider query parameters from a FilterSpec and
// an ad-hoc zipcode. Absent filter fields emit no key at all: providers may
// treat an empty string differently from a missing parameter. Pure mapping,
// no I/O.
func translateFilters(zipcode string, limit int, filters *model.FilterSpec) url.Values {
	params := url.Values{}

	if zips := mergeZips(zipcode, filters); len(zips) > 0 {
		params.Set("zip", strings.Join(zips, ","))
	}

	if filters != nil {
		if city := strings.TrimSpace(filters.City); city != "" {
			params.Set("city", city)
		}
		if state := strings.TrimSpace(filters.State); state != "" {
			params.Set("state", state)
		}
		if q := strings.TrimSpace(filters.Query); q != "" {
			params.Set("q", q)
		}
		if codes := translatePropertyTypes(filters.PropertyTypes); len(codes) > 0 {
			params.Set("propertyType", strings.Join(codes, ","))
		}
		if filters.MinBeds != nil {
			params.Set("minBeds", strconv.Itoa(*filters.MinBeds))
		}
		if filters.MaxBeds != nil {
			params.Set("maxBeds", strconv.Itoa(*filters.MaxBeds))
		}
		if filters.MinBaths != nil {
			params.Set("minBaths", strconv.FormatFloat(*filters.MinBaths, 'f', -1, 64))
		}
		if filters.MaxBaths != nil {
			params.Set("maxBaths", strconv.FormatFloat(*filters.MaxBaths, 'f', -1, 64))
		}
		if filters.MinSqft != nil {
			params.Set("minSqft", strconv.Itoa(*filters.MinSqft))
		}
		if filters.MaxSqft != nil {
			params.Set("maxSqft", strconv.Itoa(*filters.MaxSqft))
		}
		if filters.MinLotSize != nil {
			params.Set("minLotSize", strconv.Itoa(*filters.MinLotSize))
		}
		if filters.MaxLotSize != nil {
			params.Set("maxLotSize", strconv.Itoa(*filters.MaxLotSize))
		}
		if filters.MinYearBuilt != nil {
			params.Set("minYearBuilt", strconv.Itoa(*filters.MinYearBuilt))
		}
		if filters.MaxYearBuilt != nil {
			params.Set("maxYearBuilt", strconv.Itoa(*filters.MaxYearBuilt))
		}
		if filters.MinEquityPercent != nil {
			params.Set("minEquityPercent", strconv.Itoa(*filters.MinEquityPercent))
		}
		if filters.AbsenteeOwner != nil {
			if *filters.AbsenteeOwner {
				params.Set("occupancy", occupancyAbsentee)
			} else {
				params.Set("occupancy", occupancyOccupied)
			}
		}
	}

	params.Set("limit", strconv.Itoa(clampLimit(limit)))
	params.Set("page", "1")
	return params
}
