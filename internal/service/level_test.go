package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/service"
)

func TestClassifyLevel(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  model.InvestorLevel
	}{
		{"zero is starter", 0, model.LevelStarter},
		{"just below bronze", 9999.99, model.LevelStarter},
		{"exactly bronze", 10000, model.LevelBronze},
		{"exactly silver is not bronze", 50000, model.LevelSilver},
		{"between gold and ruby", 249999, model.LevelGold},
		{"exactly ruby", 250000, model.LevelRuby},
		{"exactly emerald", 500000, model.LevelEmerald},
		{"exactly platinum", 1000000, model.LevelPlatinum},
		{"exactly diamond", 5000000, model.LevelDiamond},
		{"far above diamond", 1e12, model.LevelDiamond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := service.ClassifyLevel(tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestClassifyLevel_RejectsInvalidTotals(t *testing.T) {
	for _, total := range []float64{-0.01, -50000, math.NaN()} {
		_, err := service.ClassifyLevel(total)
		assert.ErrorIs(t, err, apperrors.ErrNegativeAmount, "total %v", total)
	}
}

func TestClassifyLevel_IsMonotonic(t *testing.T) {
	rank := make(map[model.InvestorLevel]int, len(service.LevelThresholds))
	for i, th := range service.LevelThresholds {
		rank[th.Level] = i
	}

	prev := -1
	for total := 0.0; total <= 6000000; total += 2500 {
		level, err := service.ClassifyLevel(total)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[level], prev, "level dropped at %v", total)
		prev = rank[level]
	}
}
