// Package sim samples tracked points of a scene over time.
//
// A Sampler applies every joint motion at each instant and queries the
// pose, velocity and acceleration of each track. Samples feed per-track
// metrics and any registered observers.
package sim
