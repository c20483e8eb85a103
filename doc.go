/*
go-silhouette turns noisy per-frame body segmentation masks into clean
geometric silhouettes and compares them against a previously stored
reference silhouette ("guideline") to produce positioning feedback
(move closer/farther, shift left/right/up/down) during capture.

It is intended for progress photo and timelapse apps where a user needs to
stand in the same spot and pose across many capture sessions.  The camera
pipeline and the segmentation model producing the masks are external
collaborators, any implementation producing a binary foreground mask can
be used.

The root package holds the geometric value types (Point, Contour, Mask,
NormalizedContour).  The extract subpackage converts a mask into an
ordered simplified boundary polygon, align scores a contour against a
guideline and emits directional feedback, guideline persists reference
contours, session wires the per-frame pipeline together and render draws
debug overlays.

See example code and usage in the example subdirectory.
*/
package silhouette
