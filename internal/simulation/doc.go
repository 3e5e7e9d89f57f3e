// Package simulation runs the randomized event driver: a background loop
// that fires a trigger on a random sensor at a random interval while the
// panel's simulation flag is on.
//
// The driver sits outside the panel core and is just another caller of
// TriggerSensor, so every simulated event obeys the same rules as a manual
// one. Randomness and scheduling are injectable for deterministic tests.
package simulation
