// Package motion provides joint trajectories.
//
// A Motion yields the joint position q and its first two time derivatives at
// any time t. Analytic profiles (constant, ramp, sine) return exact
// derivatives; Lua motions let a scene script its own profile.
package motion
