// Command autopilot plays a taxi session over the REST API. It follows the
// navigation hint of each state, brakes into pickup and drop-off zones, and
// keeps the taxi fuelled and repaired between bursts of driving.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

const sessionFile = ".session"

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("Autopilot failed")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autopilot",
		Usage: "Drive a taxi session automatically",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "city config id for a new session"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.IntFlag{Name: "rides", Value: 10, Usage: "stop after this many completed rides"},
			&cli.IntFlag{Name: "max-drives", Value: 2000, Usage: "maximum drive requests"},
			&cli.IntFlag{Name: "chunk", Value: 10, Usage: "ticks per drive request"},
			&cli.IntFlag{Name: "delay", Usage: "delay between drives in milliseconds"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	client := NewClient(cmd.String("url"))
	log.Info().Str("url", cmd.String("url")).Msg("Connecting to game server")

	if err := openSession(ctx, client, cmd.String("continue"), cmd.String("config")); err != nil {
		return err
	}

	pilot := &Pilot{
		client:     client,
		chunkTicks: cmd.Int("chunk"),
		maxDrives:  cmd.Int("max-drives"),
		delay:      time.Duration(cmd.Int("delay")) * time.Millisecond,
	}
	outcome, err := pilot.Run(ctx, cmd.Int("rides"))
	if err != nil {
		return err
	}

	log.Info().Str("session", client.sessionID).Msg(outcome.String())
	if outcome.Rides < cmd.Int("rides") {
		return cli.Exit(fmt.Sprintf("stopped after %d rides", outcome.Rides), 1)
	}
	return nil
}

// openSession resumes the given or saved session, falling back to a new one
func openSession(ctx context.Context, client *Client, resume, configID string) error {
	if resume == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resume = string(bytes.TrimSpace(data))
		}
	}

	if resume != "" {
		client.sessionID = resume
		_, err := client.State(ctx)
		if err == nil {
			log.Info().Str("session", resume).Msg("Session resumed")
			return nil
		}
		log.Warn().Err(err).Msg("Failed to resume session, creating a new one")
	}

	info, err := client.CreateSession(ctx, configID)
	if err != nil {
		return err
	}
	log.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("Session created")

	if err := os.WriteFile(sessionFile, []byte(info.ID), 0644); err != nil {
		log.Warn().Err(err).Msg("Failed to save session ID")
	}
	return nil
}
