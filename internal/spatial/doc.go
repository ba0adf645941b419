// Package spatial provides the rigid-body algebra used by the frame graph.
//
// The package defines two value types and the operators that move motion
// quantities between coordinate systems:
//
//   - [Vec6]: spatial motion vector, angular part first, linear part second
//   - [Isometry]: rigid transform (rotation followed by translation)
//   - [AdT], [AdInvT]: full adjoint of a transform and of its inverse
//   - [AdR], [AdInvR]: rotation-only adjoint, used for classical quantities
//   - [Ad]: spatial cross product (the small adjoint ad(V1) V2)
//
// An Isometry T maps coordinates of a child frame into its parent:
//
//	x_parent = T.Rotation * x_child + T.Translation
//
// so AdT(T, V) re-expresses a motion vector given in the child's
// coordinates in the parent's coordinates.
//
// # Example
//
//	tf := spatial.Translation(mgl64.Vec3{1, 0, 0})
//	v := spatial.NewVec6(0, 0, 1, 0, 0, 0)
//	inChild := spatial.AdInvT(tf, v)
package spatial
