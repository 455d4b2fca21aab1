// Package components defines ECS components for the simulation.
package components

// Bird identifies a hummingbird entity. The ID is the stable key used to
// look up the bird's controller, which lives outside the ECS.
type Bird struct {
	ID uint32 `inspect:"label"`
}
