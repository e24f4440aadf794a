package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/akmonengine/ascent"
	"github.com/akmonengine/ascent/config"
	"github.com/akmonengine/ascent/grip"
	"github.com/akmonengine/ascent/render"
	"github.com/akmonengine/ascent/telemetry"
	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	ticks := flag.Int("ticks", 3600, "Stop after N ticks")
	dt := flag.Float64("dt", 1.0/60.0, "Tick duration in seconds")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	csvPath := flag.String("csv", "", "Write per tick telemetry to this CSV file")
	debug := flag.Bool("debug", false, "Log debug events")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	recorder, err := telemetry.Create(*csvPath)
	if err != nil {
		slog.Error("failed to open telemetry", "error", err)
		os.Exit(1)
	}
	defer recorder.Close()

	s := ascent.NewSession(cfg, rngSeed, logger)
	lost := false
	s.Events.Subscribe(ascent.GAME_LOST, func(event ascent.Event) {
		lost = true
	})

	slog.Info("starting headless climb",
		"seed", rngSeed,
		"ticks", *ticks,
		"dt", *dt,
	)

	frame := &render.Recorder{}
	for tick := 0; tick < *ticks && !lost; tick++ {
		steer(s)
		s.Step(*dt)

		frame.Reset()
		s.Draw(frame)

		if err := recorder.Write(s.Record()); err != nil {
			slog.Error("failed to write telemetry", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("climb finished",
		"tick", s.Tick(),
		"score", s.Score,
		"hp", s.HP,
		"height", s.Height(),
		"lost", s.Lost,
		"draw_calls", len(frame.Calls),
	)
}

// steer moves the free hand toward the nearest grabable grip and grabs it once in reach
func steer(s *ascent.Session) {
	effector := s.Climber.EndEffector()

	target, ok := nearestGrabable(s.Track, s.Held(), effector)
	if !ok {
		s.Steer(mgl64.Vec3{})
		return
	}

	offset := target.Sub(effector)
	if offset.Len() <= s.Config.Climber.GrabRadius {
		s.TryGrab()
		return
	}

	direction := offset.Normalize()
	s.Steer(mgl64.Vec3{direction.X(), direction.Y(), 0})
}

func nearestGrabable(track *grip.Track, held *grip.Grip, probe mgl64.Vec3) (mgl64.Vec3, bool) {
	best := -1.0
	var position mgl64.Vec3
	for i := 0; i < track.Len(); i++ {
		g := track.Grip(i)
		if g == held || !g.Grabable {
			continue
		}
		p := track.WorldPosition(g)
		if d := p.Sub(probe).Len(); best < 0 || d < best {
			best, position = d, p
		}
	}
	return position, best >= 0
}
