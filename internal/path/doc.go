// Package path builds the annotated path for a closed-loop track.
//
// Responsibilities: turning ordered waypoints into oriented poses, estimating
// signed curvature between poses, and clustering consecutive poses into
// segments that share the sharpest curvature found within a lookahead
// distance. Key types: PathPoint, Segment, Path.
//
// A Path is built once per track load and is read-only afterwards, so one
// instance may be shared by any number of controllers without locking.
package path
