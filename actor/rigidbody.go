package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// GroundCallback is invoked once each time a body crosses below the ground plane
type GroundCallback func(rb *RigidBody)

// RigidBody is a free rigid body integrated with forward Euler on its
// momentum state: position x, rotation R, linear momentum p, angular momentum L.
type RigidBody struct {
	Transform Transform

	Mass                float64
	InertiaLocal        mgl64.Mat3 // Inertia tensor in body frame
	InverseInertiaLocal mgl64.Mat3

	LinearMomentum  mgl64.Vec3
	AngularMomentum mgl64.Vec3

	// Gravity is added to the linear momentum rate every step
	Gravity mgl64.Vec3
	// GroundHeight is the vertical coordinate of the ground plane
	GroundHeight float64

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	onHitGround GroundCallback

	Shape ShapeInterface
}

// NewRigidBody creates a body at rest with the inertia of its shape
func NewRigidBody(transform Transform, shape ShapeInterface, mass float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		Mass:      mass,
	}
	rb.SetInertia(shape.ComputeInertia(mass))

	return rb
}

// SetInertia sets the body frame inertia tensor and caches its inverse
func (rb *RigidBody) SetInertia(inertia mgl64.Mat3) {
	rb.InertiaLocal = inertia
	rb.InverseInertiaLocal = inertia.Inv()
}

// SetInitialCondition places the body and converts velocities into momenta
func (rb *RigidBody) SetInitialCondition(position mgl64.Vec3, rotation mgl64.Mat3, linearVelocity, angularVelocity mgl64.Vec3) {
	rb.Transform.Position = position
	rb.Transform.Rotation = rotation
	rb.LinearMomentum = linearVelocity.Mul(rb.Mass)
	rb.AngularMomentum = rb.GetInertiaWorld().Mul3x1(angularVelocity)
}

// SetOnHitGround registers the ground crossing callback, nil disables it
func (rb *RigidBody) SetOnHitGround(callback GroundCallback) {
	rb.onHitGround = callback
}

// BounceOnGround inverts the vertical momentum
func BounceOnGround(rb *RigidBody) {
	rb.LinearMomentum[1] = -rb.LinearMomentum[1]
}

// Velocity returns p/m
func (rb *RigidBody) Velocity() mgl64.Vec3 {
	return rb.LinearMomentum.Mul(1.0 / rb.Mass)
}

// AngularVelocity returns I_world^-1 * L
func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	return rb.GetInverseInertiaWorld().Mul3x1(rb.AngularMomentum)
}

// Integrate advances the state by dt. All derivatives are evaluated on the
// state at the start of the step.
func (rb *RigidBody) Integrate(dt float64) {
	previousHeight := rb.Transform.Position.Y()

	velocity := rb.Velocity()
	W := Skew(rb.AngularVelocity())
	rotationRate := rb.Transform.Rotation.Mul3(W)
	force := rb.accumulatedForce.Add(rb.Gravity)
	torque := rb.accumulatedTorque

	rb.Transform.Position = rb.Transform.Position.Add(velocity.Mul(dt))

	// R drifts off the rotation manifold after a few raw Euler steps
	rb.Transform.Rotation = ProjectToRotation(rb.Transform.Rotation.Add(rotationRate.Mul(dt)))

	rb.LinearMomentum = rb.LinearMomentum.Add(force.Mul(dt))
	rb.AngularMomentum = rb.AngularMomentum.Add(torque.Mul(dt))

	rb.ClearForces()

	if rb.onHitGround != nil && previousHeight >= rb.GroundHeight && rb.Transform.Position.Y() < rb.GroundHeight {
		rb.onHitGround(rb)
	}
}

// AddForce accumulates a force applied on the center of mass for the next step
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

// AddTorque accumulates a torque about the center of mass for the next step
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// Inertia in world space
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// Inverse inertia in world space
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// AABB bounds the body in world space
func (rb *RigidBody) AABB() AABB {
	return rb.Shape.ComputeAABB(rb.Transform)
}

// IntersectsSphere transforms a world sphere center into the body frame and
// tests it against the shape. Scale is ignored by the frame change, the shape
// carries the body dimensions.
func (rb *RigidBody) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	if !rb.AABB().Overlaps(SphereAABB(center, radius)) {
		return false
	}
	return rb.Shape.IntersectsSphere(rb.Transform.ToLocal(center), radius)
}
