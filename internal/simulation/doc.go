// Package simulation provides a multi-tick test harness for validating
// emergent dynamics of the swarm engine.
//
// The simulation exercises the real Swarm, message bus, emergence
// detector, and snapshot store with a virtual clock. Scenarios are Go
// builders that configure a population and drive a fixed number of
// ticks, capturing per-tick state for property-based assertions.
//
// Each scenario runs on an in-memory snapshot store and a seeded random
// source, so runs are reproducible and never touch user data.
//
// Usage:
//
//	func TestCoherenceStaysClamped(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:  "coherence-clamp",
//	        Seed:  7,
//	        Ticks: 200,
//	    })
//	    simulation.AssertCoherenceWithin(t, result, 0.3, 0.9)
//	}
package simulation
