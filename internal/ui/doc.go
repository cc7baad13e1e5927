// Package ui is the Bubble Tea host for the panel engine.
//
// The screen is split into a sidebar rendered from a panels.Container node
// tree, a one-column width handle, and a main area that shows the overlay of
// an enlarged panel. Mouse presses on separators, the width handle and panel
// headers start drags; motion and release events drive them. Keyboard input
// goes through a leader-key registry (SPC w ..., SPC a ..., SPC l ...), and
// every panel operation is dispatched as a command on the bus so that keys,
// mouse and external collaborators share one code path.
//
// Concrete panel kinds (project, console, tv, video) live here too; each
// implements panels.Kind and Content.
package ui
