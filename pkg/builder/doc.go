// Package builder configures and compiles the benchmark with cmake and keeps
// the most recently built artifact, so consecutive configurations sharing a
// build key do not trigger any external build step.
package builder
