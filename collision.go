package ascent

import (
	"github.com/akmonengine/ascent/chain"
)

// integrate advances every live obstacle by h
func (s *Session) integrate(h float64) {
	for _, o := range s.Obstacles {
		o.Lifetime -= h
		if !o.Alive() {
			continue
		}
		o.Body.Integrate(h)
	}
}

// resolveCollisions tests the torso sphere against every live obstacle, in
// the obstacle frame. A hit costs one hp once the climb has started, sends the
// obstacle back along its momentum and disables its collisions for a cooldown.
func (s *Session) resolveCollisions(h float64) {
	torso, ok := s.Climber.NodePosition(chain.Torso)
	if !ok {
		panic("ascent: climber has no torso")
	}
	radius := s.Config.Obstacles.TorsoRadius

	for _, o := range s.Obstacles {
		if !o.Alive() {
			continue
		}

		if !o.collidable {
			o.cooldown -= h
			if o.cooldown < 0 {
				o.collidable = true
			}
			continue
		}

		if !o.Body.IntersectsSphere(torso, radius) {
			continue
		}

		if !s.firstGrip {
			s.HP--
		}
		o.Body.LinearMomentum = o.Body.LinearMomentum.Mul(-1)
		o.collidable = false
		o.cooldown = s.Config.Obstacles.CollisionCooldown

		s.Events.emit(ObstacleHitEvent{Obstacle: o, HP: s.HP})
		s.Logger.Info("obstacle hit", "hp", s.HP, "tick", s.tick)
	}

	// Remove obstacles below the camera or out of time
	for i := len(s.Obstacles) - 1; i >= 0; i-- {
		o := s.Obstacles[i]
		if !o.Alive() || o.Body.Transform.Position.Y() < s.Config.Obstacles.DespawnHeight {
			s.Obstacles = append(s.Obstacles[:i], s.Obstacles[i+1:]...)
		}
	}
}
