package service

import (
	"fmt"
	"math"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// LevelThresholds lists every tier with its inclusive minimum cumulative investment,
// in ascending order. Starter is the zero threshold and therefore the fallback.
var LevelThresholds = []model.LevelThreshold{
	{Level: model.LevelStarter, Minimum: 0},
	{Level: model.LevelBronze, Minimum: 10_000},
	{Level: model.LevelSilver, Minimum: 50_000},
	{Level: model.LevelGold, Minimum: 100_000},
	{Level: model.LevelRuby, Minimum: 250_000},
	{Level: model.LevelEmerald, Minimum: 500_000},
	{Level: model.LevelPlatinum, Minimum: 1_000_000},
	{Level: model.LevelDiamond, Minimum: 5_000_000},
}

// ClassifyLevel returns the highest tier whose threshold is less than or equal to total.
// Negative and NaN totals are rejected rather than clamped.
func ClassifyLevel(total float64) (model.InvestorLevel, error) {
	if math.IsNaN(total) || total < 0 {
		return "", fmt.Errorf("%w: total investment %v", apperrors.ErrNegativeAmount, total)
	}

	level := model.LevelStarter
	for _, threshold := range LevelThresholds {
		if total < threshold.Minimum {
			break
		}
		level = threshold.Level
	}
	return level, nil
}
