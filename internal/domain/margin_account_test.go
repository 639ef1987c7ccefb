package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		asset     int64
		liability int64
		want      int64
	}{
		{"fully collateralized", 200, 100, 50},
		{"underwater", 100, 150, -50},
		{"break even", 100, 100, 0},
		{"no liability", 100, 0, 100},
		{"truncates toward zero", 300, 100, 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &MarginAccount{
				AssetValueMaint:     I80F48FromInt(tt.asset),
				LiabilityValueMaint: I80F48FromInt(tt.liability),
			}
			got, ok := a.HealthScore()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHealthScoreUnavailableOnZeroAssets(t *testing.T) {
	a := &MarginAccount{
		AssetValueMaint:     I80F48Zero(),
		LiabilityValueMaint: I80F48FromInt(50),
	}
	got, ok := a.HealthScore()
	assert.False(t, ok)
	assert.Equal(t, HealthUnavailable, got)
}

func TestHealthScoreZeroValueAccount(t *testing.T) {
	var a MarginAccount
	got, ok := a.HealthScore()
	assert.False(t, ok)
	assert.Equal(t, HealthUnavailable, got)
}

func TestHealthScoreDoesNotMutateAccount(t *testing.T) {
	a := &MarginAccount{
		AssetValueMaint:     I80F48FromInt(200),
		LiabilityValueMaint: I80F48FromInt(100),
	}
	a.HealthScore()
	a.HealthScore()
	got, _ := a.HealthScore()
	assert.Equal(t, int64(50), got)
}
