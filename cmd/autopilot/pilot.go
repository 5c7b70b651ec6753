package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
	"github.com/wricardo/mcp-training/taxigame/game/service"
)

const (
	// Inside this distance the pilot keeps its speed under crawlSpeed
	approachDistance = 150.0
	crawlSpeed       = 20.0
	refuelBelow      = 25.0
	repairBelow      = 30.0
)

var stopEvents = []engine.EventType{engine.EventPickup, engine.EventDropoff, engine.EventOutOfFuel}

// Pilot drives a session toward each navigation target in short bursts
type Pilot struct {
	client     *Client
	chunkTicks int
	maxDrives  int
	delay      time.Duration
}

// Outcome summarizes a run
type Outcome struct {
	Drives   int
	Rides    int
	Money    int
	Career   engine.CareerStatus
	Stranded bool
}

// nextInput steers toward nav and brakes when closing in too fast
func nextInput(snap engine.Snapshot, nav *engine.Navigation) engine.InputState {
	var in engine.InputState
	if nav == nil {
		return in
	}

	switch nav.Turn {
	case "left":
		in.Left = true
	case "right":
		in.Right = true
	}

	speed := snap.State.CurrentSpeed
	switch {
	case nav.Distance > approachDistance:
		in.Forward = !snap.State.IsSpeeding
	case speed >= crawlSpeed:
		in.Backward = true
	default:
		in.Forward = true
	}
	return in
}

// garageActions lists what the pilot should buy for the current state
func garageActions(state engine.GameState) []string {
	var actions []string
	if state.Fuel < refuelBelow {
		actions = append(actions, "refuel")
	}
	if state.CarCondition < repairBelow {
		actions = append(actions, "repair")
	}
	if state.CanAffordCar && !state.OwnsVehicle {
		actions = append(actions, "buy-vehicle")
	}
	if state.CanStartCompany {
		actions = append(actions, "start-company")
	}
	return actions
}

// Run drives until targetRides rides are done, the drive budget is spent or
// the taxi is stranded with nothing to buy fuel with
func (p *Pilot) Run(ctx context.Context, targetRides int) (*Outcome, error) {
	state, err := p.client.State(ctx)
	if err != nil {
		return nil, err
	}
	snap, nav := state.Snapshot, state.Navigation
	out := &Outcome{}

	for out.Drives < p.maxDrives && snap.State.CompletedRides < targetRides {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		for _, action := range garageActions(snap.State) {
			res, err := p.client.Garage(ctx, action)
			if err != nil {
				return out, err
			}
			if res.Applied {
				log.Info().Str("action", action).Int("cost", res.Cost).Msg("Garage")
				snap = res.Snapshot
			} else {
				log.Debug().Str("action", action).Str("reason", res.Reason).Msg("Garage refused")
			}
		}
		if snap.Stranded {
			out.Stranded = true
			break
		}

		result, err := p.client.Drive(ctx, service.DriveRequest{
			Input:  nextInput(snap, nav),
			Ticks:  p.chunkTicks,
			StopOn: stopEvents,
		})
		if err != nil {
			return out, err
		}
		out.Drives++
		for _, ev := range result.Events {
			if ev.Type == engine.EventPickup || ev.Type == engine.EventDropoff {
				log.Info().Str("event", string(ev.Type)).Int("amount", ev.Amount).Msg(ev.Message)
			}
		}
		snap, nav = result.Snapshot, result.Navigation

		if p.delay > 0 {
			time.Sleep(p.delay)
		}
	}

	out.Rides = snap.State.CompletedRides
	out.Money = snap.State.Money
	out.Career = snap.State.CareerStatus
	out.Stranded = out.Stranded || snap.Stranded
	return out, nil
}

func (o *Outcome) String() string {
	return fmt.Sprintf("drives=%d rides=%d money=$%d career=%s stranded=%v",
		o.Drives, o.Rides, o.Money, o.Career.Label(), o.Stranded)
}
