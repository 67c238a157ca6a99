// Package layout persists editor snapshots as named layouts.
//
// A layout pairs a [Metadata] header (id, name, tags, item count, creation
// time) with an [editor.Snapshot] of the items and snap settings. Storage is
// abstracted behind the [Store] interface, with implementations for
// different deployments:
//   - [MemoryStore]: in-process storage for tests and ephemeral servers
//   - [FileStore]: one JSON file per layout for the CLI
//   - [RedisStore]: Redis-backed storage shared between server instances
//   - [MongoStore]: MongoDB-backed storage for long-lived catalogs of layouts
//
// # Manager
//
// [Manager] sits in front of a Store and applies the editor's policies: a
// cap on the number of saved layouts (the oldest is dropped first), the
// reserved auto-save slot [AutoSaveID], age-based cleanup and translation of
// backend failures into coded errors from pkg/errors.
//
//	store, err := layout.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	mgr := layout.NewManager(store, layout.WithMaxLayouts(10))
//	meta, err := mgr.Save(ctx, "Living room", ed.Snapshot())
//
// Storage failures never touch the editor; restoring a loaded layout is an
// explicit [editor.Store.Restore] call.
package layout
