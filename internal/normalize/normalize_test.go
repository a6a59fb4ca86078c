package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestItems_ContainerShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare list", `[{"a":1},{"b":2}]`, 2},
		{"results wrapper", `{"results":[{"a":1}]}`, 1},
		{"data wrapper", `{"data":[{"a":1},{"b":2},{"c":3}]}`, 3},
		{"items wrapper", `{"items":[{"a":1}]}`, 1},
		{"properties wrapper", `{"properties":[{"a":1}]}`, 1},
		{"listings wrapper", `{"listings":[{"a":1}]}`, 1},
		{"doubly nested data.items", `{"data":{"items":[{"a":1},{"b":2}]}}`, 2},
		{"non-dict entries dropped", `[{"a":1},"junk",42,{"b":2}]`, 2},
		{"scalar payload", `"nothing"`, 0},
		{"unknown wrapper", `{"stuff":[{"a":1}]}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Items(decode(t, tt.raw)), tt.want)
		})
	}
}

func TestItems_ContainerKeyOrder(t *testing.T) {
	// "results" is tried before "listings".
	payload := decode(t, `{"listings":[{"a":1},{"b":2}],"results":[{"a":1}]}`)
	assert.Len(t, Items(payload), 1)
}

func TestMapItems_FieldAliases(t *testing.T) {
	n := New(nil)
	payload := decode(t, `{"results":[{
		"streetAddress": " 123 Main St ",
		"municipality": "Austin",
		"region": "TX",
		"postalCode": "78701",
		"ownerFullName": "Jane Roe",
		"ownerPhone": "512-555-0100",
		"beds": "3",
		"baths": 2.5,
		"livingArea": 1850,
		"lotArea": "7200",
		"yearBuilt": 1995,
		"type": "Single Family",
		"avm": 410000,
		"salePrice": "350000",
		"saleDate": "2019-06-01",
		"absenteeOwner": "yes",
		"listingId": "L-991"
	}]}`)

	leads := n.MapItems("test", payload)
	require.Len(t, leads, 1)
	l := leads[0]

	require.NotNil(t, l.Address)
	assert.Equal(t, "123 Main St", *l.Address)
	assert.Equal(t, "Austin", *l.City)
	assert.Equal(t, "TX", *l.State)
	assert.Equal(t, "78701", *l.ZipCode)
	assert.Equal(t, "Jane Roe", *l.OwnerName)
	assert.Equal(t, "512-555-0100", *l.Phone)
	assert.Equal(t, 3, *l.Bedrooms)
	assert.Equal(t, 2.5, *l.Bathrooms)
	assert.Equal(t, 1850, *l.Sqft)
	assert.Equal(t, 7200, *l.LotSize)
	assert.Equal(t, 1995, *l.YearBuilt)
	assert.Equal(t, "Single Family", *l.PropertyType)
	assert.Equal(t, 410000.0, *l.EstimatedValue)
	assert.Equal(t, 350000.0, *l.LastSalePrice)
	assert.Equal(t, "2019-06-01", *l.LastSaleDate)
	require.NotNil(t, l.AbsenteeOwner)
	assert.True(t, *l.AbsenteeOwner)
	assert.Equal(t, "L-991", *l.ProviderID)
	assert.NotNil(t, l.RawData)
}

func TestMapItems_MissingFieldsStayNil(t *testing.T) {
	n := New(nil)
	leads := n.MapItems("test", decode(t, `[{"address":"1 Elm St"}]`))
	require.Len(t, leads, 1)

	l := leads[0]
	assert.Nil(t, l.Bedrooms)
	assert.Nil(t, l.Sqft)
	assert.Nil(t, l.EstimatedValue)
	assert.Nil(t, l.AbsenteeOwner)
	assert.Nil(t, l.EquityPercent)
}

func TestMapItems_BadCoercionsStayNil(t *testing.T) {
	n := New(nil)
	leads := n.MapItems("test", decode(t, `[{
		"address": "2 Oak Ave",
		"beds": "studio",
		"sqft": "n/a",
		"estimatedValue": "call for price",
		"ownerOccupied": "maybe"
	}]`))
	require.Len(t, leads, 1)

	l := leads[0]
	assert.Nil(t, l.Bedrooms)
	assert.Nil(t, l.Sqft)
	assert.Nil(t, l.EstimatedValue)
	assert.Nil(t, l.OwnerOccupied)
}

func TestAssembleAddress_LineJoining(t *testing.T) {
	tests := []struct {
		name string
		item string
		want *string
	}{
		{"one-line preferred", `{"address":"5 Pine Rd","addressLine1":"ignored"}`, strPtr("5 Pine Rd")},
		{"line1 and line2 joined", `{"addressLine1":"10 Birch Ln","addressLine2":"Apt 4"}`, strPtr("10 Birch Ln Apt 4")},
		{"line1 only", `{"addressLine1":" 11 Cedar Ct "}`, strPtr("11 Cedar Ct")},
		{"nothing", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := decode(t, tt.item).(map[string]any)
			got := assembleAddress(item)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestDeriveFinancials(t *testing.T) {
	n := New(nil)

	t.Run("estimated defaults from assessed", func(t *testing.T) {
		leads := n.MapItems("test", decode(t, `[{"address":"1 A St","assessedValue":200000}]`))
		require.Len(t, leads, 1)
		require.NotNil(t, leads[0].EstimatedValue)
		assert.InDelta(t, 220000, *leads[0].EstimatedValue, 0.01)
	})

	t.Run("equity derived from estimate and mortgage", func(t *testing.T) {
		leads := n.MapItems("test", decode(t, `[{"address":"1 A St","estimatedValue":400000,"mortgageAmount":300000}]`))
		require.Len(t, leads, 1)
		require.NotNil(t, leads[0].EquityPercent)
		assert.InDelta(t, 25, *leads[0].EquityPercent, 0.01)
	})

	t.Run("supplied equity not overwritten", func(t *testing.T) {
		leads := n.MapItems("test", decode(t, `[{"address":"1 A St","estimatedValue":400000,"mortgageAmount":300000,"equityPercent":80}]`))
		require.Len(t, leads, 1)
		assert.InDelta(t, 80, *leads[0].EquityPercent, 0.01)
	})

	t.Run("no derivation without mortgage", func(t *testing.T) {
		leads := n.MapItems("test", decode(t, `[{"address":"1 A St","estimatedValue":400000}]`))
		require.Len(t, leads, 1)
		assert.Nil(t, leads[0].EquityPercent)
	})
}

func TestToBool_Table(t *testing.T) {
	tests := []struct {
		in   any
		want *bool
	}{
		{"true", boolPtr(true)},
		{"YES", boolPtr(true)},
		{"y", boolPtr(true)},
		{"1", boolPtr(true)},
		{"false", boolPtr(false)},
		{"No", boolPtr(false)},
		{"0", boolPtr(false)},
		{true, boolPtr(true)},
		{float64(0), boolPtr(false)},
		{float64(2), boolPtr(true)},
		{"maybe", nil},
		{nil, nil},
	}

	for _, tt := range tests {
		got := toBool(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %v", tt.in)
		} else {
			require.NotNil(t, got, "input %v", tt.in)
			assert.Equal(t, *tt.want, *got, "input %v", tt.in)
		}
	}
}

func boolPtr(b bool) *bool { return &b }

func TestToIntTruncates(t *testing.T) {
	got := toInt("3.9")
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)
}
