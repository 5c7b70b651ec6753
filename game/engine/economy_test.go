package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEconomy_Consumption(t *testing.T) {
	eco := DefaultGameConfig().Economy

	assert.InDelta(t, 6.0, eco.FuelDelta(600), 1e-9)
	assert.InDelta(t, 3.0, eco.ConditionDelta(600, false), 1e-9)
	assert.InDelta(t, 9.0, eco.ConditionDelta(600, true), 1e-9)

	// Fuel never goes below zero once clamped
	assert.Equal(t, 0.0, clampPercent(5-eco.FuelDelta(600)))
	assert.Equal(t, 100.0, clampPercent(130))
	assert.Equal(t, 0.0, clampPercent(math.NaN()))
}

func TestEconomy_PaymentFor(t *testing.T) {
	eco := DefaultGameConfig().Economy
	assert.Equal(t, 50, eco.PaymentFor(Employee))
	assert.Equal(t, 100, eco.PaymentFor(Freelancer))
	assert.Equal(t, 200, eco.PaymentFor(Owner))
}

func TestEconomy_SpeedLimitAt(t *testing.T) {
	eco := DefaultGameConfig().Economy

	tests := []struct {
		name  string
		pos   Vec2
		zone  ZoneKind
		limit float64
	}{
		{"north residential", Vec2{X: 600, Y: 100}, Residential, 120},
		{"south residential", Vec2{X: 600, Y: 900}, Residential, 120},
		{"residential wins over commercial", Vec2{X: 100, Y: 100}, Residential, 120},
		{"west commercial", Vec2{X: 100, Y: 500}, Commercial, 180},
		{"east commercial", Vec2{X: 1000, Y: 500}, Commercial, 180},
		{"main road", Vec2{X: 600, Y: 500}, MainRoad, 240},
		{"band edge is main road", Vec2{X: 300, Y: 250}, MainRoad, 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, limit := eco.SpeedLimitAt(tt.pos)
			assert.Equal(t, tt.zone, zone)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestEconomy_IsSpeeding(t *testing.T) {
	eco := DefaultGameConfig().Economy
	assert.False(t, eco.IsSpeeding(140, 120))
	assert.True(t, eco.IsSpeeding(140.5, 120))
	assert.False(t, eco.IsSpeeding(0, 120))
}

func TestEconomy_RollTicket(t *testing.T) {
	eco := DefaultGameConfig().Economy
	rng := rand.New(rand.NewSource(7))

	hits := 0
	const rolls = 100000
	for i := 0; i < rolls; i++ {
		if eco.RollTicket(rng) {
			hits++
		}
	}
	assert.InDelta(t, eco.TicketChance, float64(hits)/rolls, 0.002)

	eco.TicketChance = 0
	assert.False(t, eco.RollTicket(rng))
	eco.TicketChance = 1
	assert.True(t, eco.RollTicket(rng))
}

func TestEconomy_GaragePrices(t *testing.T) {
	eco := DefaultGameConfig().Economy

	assert.Equal(t, 60, eco.RefuelCost(70, 100))
	assert.Equal(t, 1, eco.RefuelCost(99.9, 100), "partial percents round up")
	assert.Equal(t, 0, eco.RefuelCost(80, 50))
	assert.Equal(t, 0, eco.RefuelCost(100, 150))
	assert.Equal(t, 250, eco.RepairCost(50, 100))
	assert.Equal(t, 500, eco.RepairCost(-10, 200), "inputs are clamped to percent range")
}
