// Package snapshot implements persistence for the panel Snapshot.
//
// The FileRepository stores and loads the snapshot as a single JSON blob on
// disk and exposes a Repository interface that the panel service depends on.
// Missing or unreadable blobs are reported with sentinel errors so the
// service can fall back to the documented defaults.
package snapshot
