package model

import "time"

// Investor is an end user whose properties are aggregated into a dashboard.
type Investor struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	IsVerified bool          `json:"isVerified"`
	Level      InvestorLevel `json:"level"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// InvestorLevel is the tier label derived from cumulative investment.
type InvestorLevel string

// Investor tiers in ascending order.
const (
	LevelStarter  InvestorLevel = "starter"
	LevelBronze   InvestorLevel = "bronze"
	LevelSilver   InvestorLevel = "silver"
	LevelGold     InvestorLevel = "gold"
	LevelRuby     InvestorLevel = "ruby"
	LevelEmerald  InvestorLevel = "emerald"
	LevelPlatinum InvestorLevel = "platinum"
	LevelDiamond  InvestorLevel = "diamond"
)

// LevelThreshold maps the minimum cumulative investment (inclusive) to a tier.
type LevelThreshold struct {
	Level   InvestorLevel `json:"level"`
	Minimum float64       `json:"minimum"`
}
