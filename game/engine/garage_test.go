package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGarage_Refuel(t *testing.T) {
	tests := []struct {
		name      string
		money     int
		fuel      float64
		target    float64
		applied   bool
		cost      int
		wantFuel  float64
		wantMoney int
	}{
		{"fills tank", 100, 70, 100, true, 60, 100, 40},
		{"partial fill", 100, 70, 80, true, 20, 80, 80},
		{"target above 100 is clamped", 100, 90, 250, true, 20, 100, 80},
		{"unaffordable is a no-op", 10, 50, 100, false, 100, 50, 10},
		{"already full", 100, 100, 100, false, 0, 100, 100},
		{"target below current", 100, 80, 50, false, 0, 80, 100},
		{"NaN target is refused", 100, 50, math.NaN(), false, 0, 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := createTestEngine(t, nil)
			e.state.Money = tt.money
			e.state.Fuel = tt.fuel

			res := e.Refuel(tt.target)
			assert.Equal(t, tt.applied, res.Applied)
			assert.Equal(t, ActionRefuel, res.Action)
			assert.Equal(t, tt.cost, res.Cost)
			assert.Equal(t, tt.wantFuel, e.state.Fuel)
			assert.Equal(t, tt.wantMoney, e.state.Money)
			if !tt.applied {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestGarage_Repair(t *testing.T) {
	e, _ := createTestEngine(t, nil)
	e.state.Money = 299
	e.state.CarCondition = 40

	res := e.Repair(100)
	assert.False(t, res.Applied)
	assert.Equal(t, 300, res.Cost)
	assert.Equal(t, 40.0, e.state.CarCondition)

	e.state.Money = 300
	res = e.Repair(100)
	assert.True(t, res.Applied)
	assert.Equal(t, 100.0, e.state.CarCondition)
	assert.Equal(t, 0, e.state.Money)
	assert.Equal(t, 300, e.state.TotalSpent)

	res = e.Repair(100)
	assert.False(t, res.Applied)
}

func TestGarage_CareerProgression(t *testing.T) {
	e, _ := createTestEngine(t, nil)

	res := e.StartCompany()
	assert.False(t, res.Applied, "employees cannot start a company")

	e.state.Money = 4999
	res = e.BuyVehicle()
	assert.False(t, res.Applied)
	assert.Equal(t, Employee, e.state.CareerStatus)

	e.state.Money = 21000
	res = e.BuyVehicle()
	require.True(t, res.Applied)
	assert.Equal(t, 5000, res.Cost)
	assert.Equal(t, Freelancer, e.state.CareerStatus)
	assert.True(t, e.state.OwnsVehicle)
	assert.Equal(t, 16000, e.state.Money)
	assert.False(t, e.state.CanAffordCar)
	assert.True(t, e.state.CanStartCompany)

	res = e.BuyVehicle()
	assert.False(t, res.Applied, "only one vehicle")
	assert.Equal(t, 16000, e.state.Money)

	res = e.StartCompany()
	require.True(t, res.Applied)
	assert.Equal(t, Owner, e.state.CareerStatus)
	assert.Equal(t, 1000, e.state.Money)
	assert.False(t, e.state.CanStartCompany)
	assert.Equal(t, 200, e.config.Economy.PaymentFor(e.state.CareerStatus))

	res = e.StartCompany()
	assert.False(t, res.Applied)
	assert.Equal(t, Owner, e.state.CareerStatus)

	var purchases int
	for _, ev := range e.History() {
		if ev.Type == EventPurchase {
			purchases++
		}
	}
	assert.Equal(t, 2, purchases)
}
