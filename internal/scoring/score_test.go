package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/passivepilot/leadgen-cli/internal/model"
)

func TestCalculateDealScore_SpreadBands(t *testing.T) {
	e := newTestEngine()

	// arv 100000, sqft and equity absent so those components stay neutral.
	lead := model.ProviderLead{}

	tests := []struct {
		name   string
		asking float64
		mao    float64
		want   float64
	}{
		{"excellent spread 20%", 100000, 120000, 100},
		{"strong spread 15%", 100000, 115000, 85},
		{"good spread 10%", 100000, 110000, 70},
		{"fair spread 5%", 100000, 105000, 50},
		{"tight spread 0%", 100000, 100000, 25},
		{"negative spread", 100000, 90000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asking := tt.asking
			_, breakdown, _ := e.CalculateDealScore(&lead, 100000, tt.mao, 20000, &asking)
			assert.InDelta(t, tt.want, breakdown["spread"], 0.01)
		})
	}
}

func TestCalculateDealScore_NeutralDefaults(t *testing.T) {
	e := newTestEngine()

	lead := model.ProviderLead{}
	score, breakdown, notes := e.CalculateDealScore(&lead, 100000, 70000, 20000, nil)

	assert.InDelta(t, 50, breakdown["spread"], 0.01)
	assert.InDelta(t, 60, breakdown["arv"], 0.01)
	assert.InDelta(t, 50, breakdown["equity"], 0.01)
	// 50*0.5 + 60*0.3 + 50*0.2 = 53
	assert.InDelta(t, 53, score, 0.01)
	assert.Contains(t, notes, "No asking price available for comparison")
	assert.Contains(t, notes, "No sqft data for value analysis")
	assert.Contains(t, notes, "No equity data available")
}

func TestCalculateDealScore_ValueAndEquityBands(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		arv        float64
		sqft       int
		equity     float64
		wantARV    float64
		wantEquity float64
	}{
		{"premium and high equity", 400000, 2000, 55, 100, 100},
		{"above average, good equity", 300000, 2000, 35, 85, 75},
		{"good value, moderate equity", 200000, 2000, 25, 70, 50},
		{"average value, low equity", 160000, 2000, 10, 55, 25},
		{"lower value", 100000, 2000, 10, 40, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := model.ProviderLead{
				Sqft:          ptrInt(tt.sqft),
				EquityPercent: ptrFloat64(tt.equity),
			}
			_, breakdown, _ := e.CalculateDealScore(&lead, tt.arv, 0, 0, nil)
			assert.InDelta(t, tt.wantARV, breakdown["arv"], 0.01)
			assert.InDelta(t, tt.wantEquity, breakdown["equity"], 0.01)
		})
	}
}

func TestCalculateDealScore_AbsenteeBonusAndCap(t *testing.T) {
	e := newTestEngine()

	// All components maxed: 100*0.5 + 100*0.3 + 100*0.2 = 100; the bonus
	// must not push past the cap.
	asking := 100000.0
	lead := model.ProviderLead{
		Sqft:          ptrInt(1000),
		EquityPercent: ptrFloat64(60),
		AbsenteeOwner: ptrBool(true),
	}
	score, _, notes := e.CalculateDealScore(&lead, 200000, 140000, 0, &asking)
	assert.InDelta(t, 100, score, 0.01)
	assert.Contains(t, notes, "Bonus: Absentee owner")

	// Mid-range score gets the full +5.
	neutral := model.ProviderLead{AbsenteeOwner: ptrBool(true)}
	score, _, _ = e.CalculateDealScore(&neutral, 100000, 70000, 20000, nil)
	assert.InDelta(t, 58, score, 0.01)
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "Strong Deal"},
		{80, "Strong Deal"},
		{70, "Good Deal"},
		{50, "Fair Deal"},
		{40, "Marginal Deal"},
		{10, "Poor Deal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommendation(tt.score), "score %.0f", tt.score)
	}
}
