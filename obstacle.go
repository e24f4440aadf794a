package ascent

import (
	"github.com/akmonengine/ascent/actor"
	"github.com/akmonengine/ascent/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Obstacle is a falling box the climber has to dodge
type Obstacle struct {
	Body *actor.RigidBody
	// Lifetime counts down with the scaled session time
	Lifetime float64

	collidable bool
	cooldown   float64
}

func newObstacle(body *actor.RigidBody, lifetime float64) *Obstacle {
	return &Obstacle{
		Body:       body,
		Lifetime:   lifetime,
		collidable: true,
	}
}

// Alive reports whether the obstacle still takes part in the simulation
func (o *Obstacle) Alive() bool {
	return o.Lifetime >= 0
}

func (o *Obstacle) LocalTransform() mgl64.Mat4 {
	return o.Body.Transform.Mat4()
}

func (o *Obstacle) MeshID() render.Mesh {
	return o.Body.Shape.MeshID()
}

// Collidable is false during the cooldown following a hit
func (o *Obstacle) Collidable() bool {
	return o.collidable
}

// spawnObstacle drops a random box from the spawn height at the armed x
func (s *Session) spawnObstacle() *Obstacle {
	cfg := s.Config.Obstacles
	jitter := cfg.VelocityJitter

	scale := mgl64.Vec3{
		s.uniform(cfg.ScaleMin, cfg.ScaleMax),
		s.uniform(cfg.ScaleMin, cfg.ScaleMax),
		s.uniform(cfg.ScaleMin, cfg.ScaleMax),
	}

	transform := actor.NewTransform()
	transform.Scale = scale

	mass := s.Config.Physics.ObstacleMass
	body := actor.NewRigidBody(transform, &actor.Box{HalfExtents: scale}, mass)
	body.Gravity = s.Config.Physics.Gravity
	body.GroundHeight = s.Config.Physics.GroundHeight

	// cancel the scrolling so the drop speed is relative to the ground
	linear := mgl64.Vec3{
		s.uniform(-jitter, jitter),
		s.uniform(-jitter, jitter) - s.Config.Scene.SpeedBase*s.Speed(),
		0,
	}
	angular := mgl64.Vec3{
		s.uniform(-jitter, jitter),
		s.uniform(-jitter, jitter),
		s.uniform(-jitter, jitter),
	}
	body.SetInitialCondition(mgl64.Vec3{s.spawnX, cfg.SpawnHeight, 0}, mgl64.Ident3(), linear, angular)

	o := newObstacle(body, cfg.Lifetime)
	body.SetOnHitGround(func(rb *actor.RigidBody) {
		actor.BounceOnGround(rb)
		s.Events.emit(GroundHitEvent{Obstacle: o})
	})

	s.Obstacles = append(s.Obstacles, o)
	s.Events.emit(ObstacleSpawnedEvent{Obstacle: o})
	s.Logger.Debug("obstacle spawned",
		"x", s.spawnX,
		"scale", scale,
		"tick", s.tick,
	)

	s.spawnX = s.randomX(s.Config.Scene.WallWidth)

	return o
}

// RemoveObstacle removes an obstacle from the session
func (s *Session) RemoveObstacle(obstacle *Obstacle) {
	k := -1
	for i, o := range s.Obstacles {
		if o == obstacle {
			k = i
			break
		}
	}

	if k != -1 {
		s.Obstacles = append(s.Obstacles[:k], s.Obstacles[k+1:]...)
	}
}
