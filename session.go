// Package ascent runs the climbing session: a two armed climber hanging from
// scrolling grips, steered by inverse kinematics, dodging falling boxes.
package ascent

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/akmonengine/ascent/chain"
	"github.com/akmonengine/ascent/config"
	"github.com/akmonengine/ascent/grip"
	"github.com/akmonengine/ascent/ik"
	"github.com/akmonengine/ascent/render"
	"github.com/akmonengine/ascent/spline"
	"github.com/akmonengine/ascent/telemetry"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// #ADD8E6
	ClimberMaterial = render.Material{Name: "metal", Color: mgl64.Vec4{0xAD / 255.0, 0xD8 / 255.0, 0xE6 / 255.0, 1}}
	GripMaterial    = render.Material{Name: "grip", Color: grip.DefaultColor}
	RockMaterial    = render.Material{Name: "rock", Color: mgl64.Vec4{0.5, 0.45, 0.4, 1}}
	WarningMaterial = render.Material{Name: "warning", Color: mgl64.Vec4{1, 0, 0, 1}}
)

// warningHeight is where the drop marker is drawn
const warningHeight = 20

// Session owns every piece of simulation state. It is single threaded: Step,
// TryGrab and Draw must be called from the same goroutine.
type Session struct {
	Config  *config.Config
	Climber *chain.Chain
	Track   *grip.Track
	// List of all falling obstacles
	Obstacles []*Obstacle
	Solver    ik.Solver
	Events    Events
	Logger    *slog.Logger

	Target         mgl64.Vec3
	TargetVelocity mgl64.Vec3

	Score  int
	HP     int
	Time   float64
	Paused bool
	Lost   bool

	speedRate float64
	held      *grip.Grip
	// anchor positions of the last two ticks
	previousAnchor mgl64.Vec3
	currentAnchor  mgl64.Vec3
	firstGrip      bool
	spawnArmed     bool
	spawnX         float64
	lastSolve      ik.Result

	rng  *rand.Rand
	tick int
}

// NewSession creates a session from cfg, the embedded defaults when nil.
// The seed drives grip and obstacle generation.
func NewSession(cfg *config.Config, seed int64, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		Config:  cfg,
		Climber: chain.NewClimber(cfg.Climber.Base),
		Track:   grip.NewTrack(0, cfg.Grips.Margin),
		Solver: ik.Solver{
			Tolerance:      cfg.Solver.Tolerance,
			StuckTolerance: cfg.Solver.StuckTolerance,
			MaxPasses:      cfg.Solver.MaxPasses,
			Axis:           mgl64.Vec3{0, 0, 1},
		},
		Events:     NewEvents(),
		Logger:     logger,
		Target:     cfg.Climber.Target,
		HP:         cfg.Scene.HP,
		speedRate:  cfg.Scene.SpeedRate,
		firstGrip:  true,
		spawnArmed: true,
		rng:        rand.New(rand.NewSource(seed)),
	}
	s.previousAnchor = s.Climber.Anchor()
	s.currentAnchor = s.previousAnchor
	s.spawnX = s.randomX(cfg.Scene.WallWidth)

	return s
}

// Speed is the current scroll speed multiplier, 0 when paused or lost
func (s *Session) Speed() float64 {
	if s.Paused {
		return 0
	}
	return s.speedRate
}

// Height is the scroll height
func (s *Session) Height() float64 {
	return s.Track.Height
}

// Tick is the number of completed steps
func (s *Session) Tick() int {
	return s.tick
}

// Held returns the grip the climber hangs from, nil before the first grab
func (s *Session) Held() *grip.Grip {
	return s.held
}

// Started reports whether a grip was grabbed at least once
func (s *Session) Started() bool {
	return !s.firstGrip
}

// LastSolve is the outcome of the latest IK run
func (s *Session) LastSolve() ik.Result {
	return s.lastSolve
}

// Steer sets the target velocity from an input direction, each component in [-1, 1]
func (s *Session) Steer(direction mgl64.Vec3) {
	s.TargetVelocity = direction.Mul(s.Config.Climber.TargetSpeed)
}

// Step advances the session by dt: scroll and grips, inverse kinematics,
// obstacle bodies, collisions, then the obstacle cycle. Events raised during
// the tick are sent at its end.
func (s *Session) Step(dt float64) {
	speed := s.Speed()
	s.Time += dt

	// Phase 1: Scroll the wall and age the grips
	s.scroll(dt, speed)

	// Phase 2: Inverse kinematics toward the target
	s.moveClimber(dt, speed)

	// Phase 3: Obstacle bodies
	s.integrate(dt * speed)

	// Phase 4: Torso against obstacles
	s.resolveCollisions(dt * speed)

	s.checkLoss()

	// Phase 5: Obstacle cycle
	s.cycleObstacles()

	s.tick++
	s.Events.flush()
}

func (s *Session) scroll(dt, speed float64) {
	spacing := s.Config.Grips.Spacing
	before := math.Floor(s.Track.Height / spacing)

	missed := s.Track.Update(dt*speed*s.Config.Scene.SpeedBase, dt*speed)
	if missed > 0 {
		s.Score -= missed
		s.Events.emit(GripMissedEvent{Count: missed, Score: s.Score})
		s.Logger.Debug("grips missed", "count", missed, "score", s.Score)
	}

	if math.Floor(s.Track.Height/spacing) > before {
		s.spawnGrip()
	}
}

// spawnGrip adds a grip half a wall above the scroll height, oscillating
// along a random curve near the previous grip
func (s *Session) spawnGrip() *grip.Grip {
	cfg := s.Config.Grips

	previousX := 0.0
	if last := s.Track.Last(); last != nil {
		previousX = last.Position().X()
	}
	left := math.Max(previousX-cfg.XDeviation, -cfg.RangeWidth/2)
	right := math.Min(previousX+cfg.XDeviation, cfg.RangeWidth/2)
	x := (1-s.rng.Float64()/2)*(right-left) + left
	height := s.Track.Height + s.Config.Scene.WallHeight/2

	count := max(3, int(s.rng.Float64()*10))
	points := make([]mgl64.Vec3, count)
	for i := range points {
		points[i] = mgl64.Vec3{(left - right) / 2 / float64(count) * float64(i), s.randomX(2), 0}
	}
	curve := spline.NewHermite(0)
	curve.SetControlPoints(points)

	return s.Track.Add(spline.Translate(curve, mgl64.Vec3{x, height, 0}), 0, cfg.Omega)
}

func (s *Session) moveClimber(dt, speed float64) {
	if s.held != nil {
		s.Climber.MoveBase(s.Track.WorldPosition(s.held))
		s.Target = s.Target.Add(s.currentAnchor.Sub(s.previousAnchor))
	}

	s.Target = s.Target.Add(s.TargetVelocity.Mul(dt * speed))
	s.lastSolve = s.Solver.Solve(s.Climber, s.Target)

	// Bring the target back when it outruns the hand
	s.previousAnchor = s.currentAnchor
	s.currentAnchor = s.Climber.Anchor()
	s.Target = ik.ClampTarget(s.currentAnchor, s.Climber.EndEffector(), s.Target)
}

func (s *Session) checkLoss() {
	if s.Lost || s.Speed() == 0 {
		return
	}

	torso, _ := s.Climber.NodePosition(chain.Torso)
	if torso.Y() >= s.Config.Climber.LossHeight && s.HP > 0 {
		return
	}

	s.Lost = true
	s.speedRate = 0
	s.Events.emit(GameLostEvent{Score: s.Score, Time: s.Time})
	s.Logger.Info("game lost",
		"score", s.Score,
		"hp", s.HP,
		"time", s.Time,
		"tick", s.tick,
	)
}

// Warning reports whether the session is in the warning window before a drop
func (s *Session) Warning() bool {
	return math.Mod(s.Time, s.Config.Obstacles.Period) < s.Config.Obstacles.Warning
}

// cycleObstacles arms a drop during the warning window of each period and
// releases exactly one obstacle after it
func (s *Session) cycleObstacles() {
	if s.Warning() {
		s.spawnArmed = true
		return
	}
	if !s.spawnArmed {
		return
	}
	s.spawnArmed = false
	s.spawnObstacle()
}

// TryGrab is the grab trigger. The hand catches the closest grip when it is
// within the grab radius and still grabable; the chain is then reversed so
// that this hand becomes the anchor and the other one the free tip.
func (s *Session) TryGrab() bool {
	effector := s.Climber.EndEffector()
	g, position, distance, err := s.Track.FindClosest(effector)
	if err != nil {
		return false
	}
	if distance > s.Config.Climber.GrabRadius || !g.Grabable {
		s.Logger.Debug("grab missed", "distance", distance, "grabable", g.Grabable)
		return false
	}

	g.Grab()
	s.held = g

	s.Solver.Solve(s.Climber, position)
	s.Climber.Reverse()

	s.Target = s.Climber.EndEffector()
	s.previousAnchor = s.Climber.Anchor()
	s.currentAnchor = s.previousAnchor
	s.firstGrip = false

	s.Score++
	if s.Score > 0 && s.Score%s.Config.Scene.ScoreStep == 0 {
		s.speedRate += s.Config.Scene.SpeedStep
		s.HP++
	}

	s.Events.emit(GripGrabbedEvent{Grip: g, Position: position, Score: s.Score})
	s.Logger.Info("grip grabbed",
		"score", s.Score,
		"hp", s.HP,
		"orientation", s.Climber.Orientation().String(),
		"tick", s.tick,
	)

	return true
}

// Draw hands the climber, the grips, the obstacles and the drop marker to r
func (s *Session) Draw(r render.Renderer) {
	s.Climber.Draw(r, mgl64.Ident4(), ClimberMaterial)
	s.Track.Draw(r, GripMaterial)

	for _, o := range s.Obstacles {
		if !o.Alive() {
			continue
		}
		render.Draw(r, o, mgl64.Ident4(), RockMaterial)
	}

	if s.Warning() {
		marker := mgl64.Translate3D(s.spawnX, warningHeight, 0).Mul4(mgl64.Scale3D(1, 1, 0.1))
		r.DrawMesh(render.MeshBox, marker, WarningMaterial)
	}
}

// Record returns the telemetry snapshot of the last tick
func (s *Session) Record() telemetry.TickRecord {
	anchor := s.Climber.Anchor()
	effector := s.Climber.EndEffector()

	return telemetry.TickRecord{
		Tick:       s.tick,
		Time:       s.Time,
		Height:     s.Track.Height,
		Speed:      s.Speed(),
		Score:      s.Score,
		HP:         s.HP,
		Grips:      s.Track.Len(),
		Obstacles:  len(s.Obstacles),
		Reversed:   s.Climber.IsReversed(),
		AnchorX:    anchor.X(),
		AnchorY:    anchor.Y(),
		EffectorX:  effector.X(),
		EffectorY:  effector.Y(),
		TargetX:    s.Target.X(),
		TargetY:    s.Target.Y(),
		IKPasses:   s.lastSolve.Passes,
		IKResidual: s.lastSolve.Residual,
		IKStuck:    s.lastSolve.Stuck,
		Lost:       s.Lost,
	}
}

func (s *Session) uniform(low, high float64) float64 {
	return s.rng.Float64()*(high-low) + low
}

// randomX is uniform in [-width/2, width/2)
func (s *Session) randomX(width float64) float64 {
	return s.rng.Float64()*width - width/2
}
