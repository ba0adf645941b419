// Package viz draws scenes in the terminal.
//
// The package renders the frame tree with lipgloss, plots sampled tracks
// with asciigraph and runs an interactive watch view on Bubble Tea:
//
//   - [Model]: live view of a scene, its skeleton and the selected track
//   - [Picker]: preset menu that launches a [Model]
//   - [Canvas]: Braille pixel canvas the skeleton is drawn on
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from t=0
//	Tab   - Select next track
//	[ ]   - Step back/forward through history
//	x y z - Rotate camera (shift reverses)
//	+ -   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
