// Package editor implements the room editor's state engine.
//
// A [Store] is the single mutation point for a scene. It owns the placed
// items, the selection, the interaction mode and tool, and the grid and snap
// settings, and it drives three helpers:
//
//   - the constraint solver ([constraint.Solver]) keeps every item inside the
//     room or flush against a wall;
//   - the snap engine ([snap.Item]) pulls moved items toward the grid and
//     rotation lattice;
//   - the history ([history.History]) records compressed snapshots for undo
//     and redo.
//
// # Rejected edits
//
// Edits that cannot apply (an unknown id, a duplicate id, an invalid tool) are
// no-ops. They log a warning and report false; they never return an error.
// Moves that would leave the room are corrected, not rejected.
//
// # Deferred capture
//
// Mutations do not write history directly. They ask the store's [Scheduler]
// for a capture on the next frame, and every mutation before that frame
// coalesces into a single undo step. [NewFrameScheduler] fires after one
// 16 ms frame; [ManualScheduler] fires only when told to, which suits tests
// and scripted use. [Store.Undo] and [Store.Redo] flush a pending capture
// first, so the latest gesture is always undoable.
//
// # Concurrency
//
// Every method is safe for concurrent use. One mutex guards all state, so an
// update and an undo never interleave.
package editor
