package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/motionsim/entity"
	"github.com/oomph-ac/motionsim/extrapolate"
	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/projectile"
	"github.com/oomph-ac/motionsim/settings"
	"github.com/oomph-ac/motionsim/simulation"
	"github.com/oomph-ac/motionsim/world"
	"github.com/sirupsen/logrus"
)

// The following program loads a scenario and logs the predictions made for its actors and arrows.
func main() {
	settingsPath := flag.String("settings", "settings.toml", "path to the settings file, created with the defaults if missing")
	scenarioPath := flag.String("scenario", "", "path to the scenario to simulate")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	if *scenarioPath == "" {
		logger.Fatal("usage: motionsim -scenario <path> [-settings <path>]")
	}

	s, err := loadSettings(*settingsPath)
	if err != nil {
		logger.Fatalf("unable to load settings: %v", err)
	}
	lvl, err := s.LogLevel()
	if err != nil {
		logger.Fatalf("unable to parse log level: %v", err)
	}
	logger.SetLevel(lvl)

	if s.Stats.Enabled {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(s.Stats.Address))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		logger.Infof("stats viewer running on http://%s/debug/statsview", s.Stats.Address)
	}

	sc, err := settings.LoadScenario(*scenarioPath)
	if err != nil {
		logger.Fatalf("unable to load scenario: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger, s, sc); err != nil {
		logger.Errorf("simulation stopped: %v", err)
		os.Exit(1)
	}
}

func loadSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

func run(ctx context.Context, log *logrus.Logger, s settings.Settings, sc *settings.Scenario) error {
	w := sc.Snapshot()
	entities := entity.Group(sc.Entities())
	log.Infof("loaded scenario on tick %d with %d blocks, %d actors and %d arrows", sc.Tick(), w.Len(), len(entities), len(sc.Arrows))

	registry := extrapolate.NewRegistry(w, s.Prediction.Horizon, log)
	registry.SetDeadAngle(float32(s.Prediction.DeadAngle))

	localInput := make(map[uint64]input.Input)
	if local, ok := sc.Local(); ok {
		e, ok := entities.Lookup(local.ID)
		if !ok {
			return fmt.Errorf("local player %d has no entity", local.ID)
		}
		localInput[local.ID] = local.Input()
		registry.ForLocalPlayer(e, local.Input())
	}

	actors := make([]extrapolate.Actor, 0, len(entities))
	for _, e := range entities {
		actors = append(actors, e)
	}
	if err := registry.Prewarm(ctx, actors); err != nil {
		return err
	}

	for _, e := range entities {
		logActor(log, s, w, registry, e, localInput)
	}
	for i, spec := range sc.Arrows {
		logArrow(log, s, w, entities.At(sc.Tick()-spec.Latency), i, spec)
	}

	stats := w.CacheStats()
	log.WithField("hits", stats.Hits).WithField("misses", stats.Misses).Debug("collision box cache")
	return nil
}

func logActor(log *logrus.Logger, s settings.Settings, w *world.Snapshot, r *extrapolate.Registry, e *entity.Entity, localInput map[uint64]input.Input) {
	ext := extrapolate.ForActor(e, r)
	entry := log.WithField("actor", e.ID()).WithField("method", ext.Kind)

	for _, t := range []float64{1, 5, 10, float64(s.Prediction.Horizon)} {
		entry.WithField("ticks", t).Infof("predicted position %v", ext.PositionInTicks(t))
	}
	if !e.Player() || e.OnGround() {
		return
	}

	in, ok := localInput[e.ID()]
	if !ok {
		in = input.GuessWithDeadAngle(e.Observation(), float32(s.Prediction.DeadAngle))
	}
	res, ok := simulation.NewFallingPlayer(e.State(), in, e.Environment(w)).FindCollision(s.Prediction.FallTicks)
	if !ok {
		entry.Infof("no landing within %d ticks", s.Prediction.FallTicks)
		return
	}
	entry.Infof("lands on %v (%s) after %d ticks", res.Pos, world.BlockName(w.BlockAt(res.Pos)), res.Tick)
}

func logArrow(log *logrus.Logger, s settings.Settings, w *world.Snapshot, entities projectile.EntityProvider, i int, spec settings.ArrowSpec) {
	pos, vel := spec.Vectors()
	a := projectile.NewArrow(pos, vel, w, entities)
	a.CollideEntities = spec.CollideEntities

	path, hit, ok := a.Simulate(s.Prediction.ArrowTicks)
	entry := log.WithField("arrow", i).WithField("latency", spec.Latency)
	switch {
	case !ok:
		entry.Infof("still flying after %d ticks at %v", len(path), a.Position)
	case hit.Kind == projectile.HitBlock:
		entry.Infof("hits block %v on face %v at %v after %d ticks", hit.BlockPos, hit.Face, hit.Position, len(path))
	default:
		entry.Infof("hits actor %d at %v after %d ticks", hit.Target.ID(), hit.Position, len(path))
	}
}
