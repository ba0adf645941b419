// Package kinematics maintains the tree of reference frames used by the
// rigid-body code and answers pose, velocity and acceleration queries between
// any two frames of the tree.
//
// The tree is built from three kinds of node:
//
//   - [Entity]: a leaf that lives in exactly one parent [Frame]
//   - [Frame]: an entity with its own coordinate system and children
//   - [World]: the process-wide root; identity pose, zero motion
//
// Concrete frames supply their motion relative to the parent through the
// [RelativeKinematics] interface. Two are provided: [SimpleFrame], whose
// relative state is set directly, and [JointFrame], driven by a single
// revolute or prismatic joint.
//
// # Caching
//
// Every frame caches its world pose, spatial velocity and spatial
// acceleration. Mutators call NotifyTransformUpdate, NotifyVelocityUpdate or
// NotifyAccelerationUpdate; the flag cascades to all descendants and the
// cached value is recomputed on the next query. Pose invalidation implies
// velocity and acceleration invalidation, velocity implies acceleration.
// Marking an already stale flag does nothing, so batched mutations cost one
// walk of the subtree.
//
// # Conventions
//
// Spatial vectors are angular first, linear second, and are expressed in the
// frame's own coordinates. Optional frame arguments accept nil for World:
//
//	v := tool.PointLinearVelocity(offset, nil, nil) // relative to World, in World
//	w := tool.AngularVelocity(base, tool)           // relative to base, in tool
//
// # Thread Safety
//
// The graph is NOT thread-safe. Queries mutate caches, so one goroutine owns
// a tree for both mutation and queries. Only the first call to [World] is
// synchronized.
package kinematics
