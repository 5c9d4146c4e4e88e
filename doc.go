/*
go-posekit maps body-landmark frames produced by an external pose-estimation
engine onto skeletal rigs.  It consumes the fixed 33-point body model
(normalized screen space or metric world space, one confidence score per
landmark) and produces a position, orientation and length scale per rigid
segment of a target rig, once per inference frame.

The root package holds the landmark data model and frame validation.  See the
retarget subpackage for the per-frame segment math, rig for attaching to
named pre-authored skeletons, smooth for optional landmark filtering, render
for 2D debug overlays, and relay for fanning frames out to other processes.

See example code and usage in the examples subdirectory.
*/
package posekit
