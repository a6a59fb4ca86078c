// Package normalize maps heterogeneous provider payloads into canonical
// ProviderLead records. Providers disagree on container shapes and field
// spellings; this package absorbs that drift with an alias table kept as data
// and coercion helpers that never fail; a value that cannot be parsed
// propagates as absent.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

// containerKeys are the known wrapper keys that hold the item list, tried in
// order before falling back to the payload itself.
var containerKeys = []string{"results", "data", "items", "properties", "listings"}

// aliases lists the known upstream spellings per logical field, first match
// wins. Kept as a table so a new provider variant is a data change, not code.
var aliases = map[string][]string{
	"address_oneline": {"address", "streetAddress", "street_address", "street"},
	"address_line1":   {"addressLine1", "address_line1", "line1"},
	"address_line2":   {"addressLine2", "address_line2", "line2"},
	"city":            {"city", "municipality"},
	"state":           {"state", "province", "region"},
	"zip":             {"zip", "zipCode", "zip_code", "postalCode", "postal_code"},
	"owner_name":      {"ownerName", "owner_name", "owner", "ownerFullName"},
	"phone":           {"phone", "phoneNumber", "phone_number", "ownerPhone", "owner_phone"},
	"bedrooms":        {"bedrooms", "beds", "bed"},
	"bathrooms":       {"bathrooms", "baths", "bath"},
	"sqft":            {"sqft", "livingArea", "living_area", "buildingSize"},
	"lot_size":        {"lotSize", "lot_size", "lotArea", "lot_area"},
	"year_built":      {"yearBuilt", "year_built"},
	"property_type":   {"propertyType", "property_type", "type"},
	"estimated_value": {"estimatedValue", "estimated_value", "avm", "marketValue"},
	"assessed_value":  {"assessedValue", "assessed_value"},
	"last_sale_price": {"lastSalePrice", "last_sale_price", "salePrice"},
	"last_sale_date":  {"lastSaleDate", "last_sale_date", "saleDate"},
	"owner_occupied":  {"ownerOccupied", "owner_occupied"},
	"absentee_owner":  {"absenteeOwner", "absentee_owner"},
	"equity_percent":  {"equityPercent", "equity_percent"},
	"mortgage_amount": {"mortgageAmount", "mortgage_amount"},
	"provider_id":     {"id", "propertyId", "property_id", "listingId", "listing_id"},
}

// assessedToMarketRatio inflates an assessed value into an estimated market
// value when no AVM figure is present; assessed values trend ~10% below market.
const assessedToMarketRatio = 1.1

// Normalizer converts raw provider items into ProviderLead records. The
// logger is injected so normalization stays testable without capturing
// global log output.
type Normalizer struct {
	log *zap.Logger
}

// New creates a Normalizer. A nil logger falls back to a no-op logger.
func New(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// Items extracts the item list from an arbitrary decoded JSON payload.
// Accepts a bare list, a list under one of the known container keys, or a
// doubly nested data.items list. Non-dict entries are dropped.
func Items(payload any) []map[string]any {
	if list, ok := payload.([]any); ok {
		return onlyDicts(list)
	}
	dict, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range containerKeys {
		if list, ok := dict[key].([]any); ok {
			return onlyDicts(list)
		}
	}
	if nested, ok := dig(dict, "data", "items").([]any); ok {
		return onlyDicts(nested)
	}
	return nil
}

// MapItems normalizes every item in a decoded payload. A failure on one item
// is logged and skipped; the batch result may be shorter than the input.
func (n *Normalizer) MapItems(providerName string, payload any) []model.ProviderLead {
	items := Items(payload)
	leads := make([]model.ProviderLead, 0, len(items))
	for i, item := range items {
		lead, err := n.mapItem(item)
		if err != nil {
			n.log.Warn("normalize: skipping malformed item",
				zap.String("provider", providerName),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		leads = append(leads, *lead)
	}
	return leads
}

// mapItem maps a single raw item onto a ProviderLead. Returns an error only
// for items that are structurally unusable; individual missing fields stay
// nil.
func (n *Normalizer) mapItem(item map[string]any) (lead *model.ProviderLead, err error) {
	// A pathological nested structure (e.g. cyclic or deeply malformed
	// values hitting a coercion panic) must not abort the batch.
	defer func() {
		if r := recover(); r != nil {
			lead = nil
			err = fmt.Errorf("normalize: panic mapping item: %v", r)
		}
	}()

	pl := &model.ProviderLead{RawData: item}

	pl.Address = assembleAddress(item)
	pl.City = pickString(item, "city")
	pl.State = pickString(item, "state")
	pl.ZipCode = pickString(item, "zip")
	pl.OwnerName = pickString(item, "owner_name")
	pl.Phone = pickString(item, "phone")

	pl.Bedrooms = toInt(pick(item, aliases["bedrooms"]...))
	pl.Bathrooms = toFloat(pick(item, aliases["bathrooms"]...))
	pl.Sqft = toInt(pick(item, aliases["sqft"]...))
	pl.LotSize = toInt(pick(item, aliases["lot_size"]...))
	pl.YearBuilt = toInt(pick(item, aliases["year_built"]...))
	pl.PropertyType = pickString(item, "property_type")

	pl.EstimatedValue = toFloat(pick(item, aliases["estimated_value"]...))
	pl.AssessedValue = toFloat(pick(item, aliases["assessed_value"]...))
	pl.LastSalePrice = toFloat(pick(item, aliases["last_sale_price"]...))
	pl.LastSaleDate = pickString(item, "last_sale_date")

	pl.OwnerOccupied = toBool(pick(item, aliases["owner_occupied"]...))
	pl.AbsenteeOwner = toBool(pick(item, aliases["absentee_owner"]...))
	pl.EquityPercent = toFloat(pick(item, aliases["equity_percent"]...))
	pl.MortgageAmount = toFloat(pick(item, aliases["mortgage_amount"]...))

	pl.ProviderID = pickString(item, "provider_id")

	deriveFinancials(pl)

	return pl, nil
}

// deriveFinancials fills estimated value and equity percent from what is
// known. Callers must not assume EstimatedValue came from a live AVM.
func deriveFinancials(pl *model.ProviderLead) {
	if pl.EstimatedValue == nil && pl.AssessedValue != nil {
		est := *pl.AssessedValue * assessedToMarketRatio
		pl.EstimatedValue = &est
	}
	if pl.EquityPercent == nil &&
		pl.EstimatedValue != nil && pl.MortgageAmount != nil &&
		*pl.EstimatedValue > 0 {
		eq := (*pl.EstimatedValue - *pl.MortgageAmount) / *pl.EstimatedValue * 100
		pl.EquityPercent = &eq
	}
}

// assembleAddress prefers a pre-joined one-line address; otherwise joins
// line1 and line2 with a single space.
func assembleAddress(item map[string]any) *string {
	if s := pickString(item, "address_oneline"); s != nil {
		return s
	}
	line1 := pickString(item, "address_line1")
	line2 := pickString(item, "address_line2")
	switch {
	case line1 != nil && line2 != nil:
		joined := strings.TrimSpace(*line1 + " " + *line2)
		return cleanString(joined)
	case line1 != nil:
		return line1
	case line2 != nil:
		return line2
	}
	return nil
}

// pick returns the first present, non-empty value among the given keys.
func pick(item map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := item[k]
		if !ok || v == nil || v == "" {
			continue
		}
		return v
	}
	return nil
}

// pickString resolves a logical field through the alias table and trims the
// result; empty-after-trim collapses to nil.
func pickString(item map[string]any, field string) *string {
	v := pick(item, aliases[field]...)
	if v == nil {
		return nil
	}
	return cleanString(fmt.Sprintf("%v", v))
}

// cleanString trims whitespace and returns nil for empty strings.
func cleanString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// toInt coerces a raw value to an int. Fractional strings and floats are
// truncated. Any failure returns nil, never zero.
func toInt(v any) *int {
	f := toFloat(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// toFloat coerces a raw value to a float64, returning nil on any failure.
func toFloat(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// toBool recognizes true/1/yes/y and false/0/no/n (case-insensitive) plus
// native bools and numbers; anything else is unknown.
func toBool(v any) *bool {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		return &t
	case float64:
		b := t != 0
		return &b
	case int:
		b := t != 0
		return &b
	}
	s := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", v)))
	switch s {
	case "true", "1", "yes", "y":
		b := true
		return &b
	case "false", "0", "no", "n":
		b := false
		return &b
	}
	return nil
}

func onlyDicts(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if d, ok := v.(map[string]any); ok {
			out = append(out, d)
		}
	}
	return out
}

// dig walks a nested dict path, returning nil as soon as the path breaks.
func dig(d map[string]any, path ...string) any {
	var cur any = d
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}
