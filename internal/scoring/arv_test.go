package scoring

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }
func ptrBool(v bool) *bool          { return &v }

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), nil)
}

func TestCalculateARV_PriorityOrder(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		lead       model.ProviderLead
		wantARV    float64
		wantMethod string
	}{
		{
			"avm wins over everything",
			model.ProviderLead{
				EstimatedValue: ptrFloat64(300000),
				AssessedValue:  ptrFloat64(250000),
				LastSalePrice:  ptrFloat64(200000),
			},
			300000, model.ARVMethodAVM,
		},
		{
			"assessed value when no avm",
			model.ProviderLead{AssessedValue: ptrFloat64(200000)},
			230000, model.ARVMethodAssessedValue,
		},
		{
			"last sale when nothing else",
			model.ProviderLead{LastSalePrice: ptrFloat64(100000)},
			115927.40, model.ARVMethodLastSale,
		},
		{
			"zero avm falls through to assessed",
			model.ProviderLead{
				EstimatedValue: ptrFloat64(0),
				AssessedValue:  ptrFloat64(100000),
			},
			115000, model.ARVMethodAssessedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arv, method, err := e.CalculateARV(&tt.lead)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantARV, arv, 0.01)
			assert.Equal(t, tt.wantMethod, method)
		})
	}
}

func TestCalculateARV_InsufficientData(t *testing.T) {
	e := newTestEngine()

	arv, method, err := e.CalculateARV(&model.ProviderLead{Address: ptrString("123 Main St")})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInsufficientData))
	assert.Zero(t, arv)
	assert.Equal(t, model.ARVMethodInsufficientData, method)
}
