// Package state provides the optimistic, thread-safe resource store shared by
// the plantel UI and CLI.
//
// # Overview
//
// A Store holds the local view of one remote collection (inventory, athletes,
// staff, analyses). Every mutation is applied to the local view first and
// then sent to the server in the background, so the UI reflects the user's
// intent before the network answers.
//
// # Architecture
//
//	UI action                     Background goroutine
//	┌──────────────────┐          ┌──────────────────────┐
//	│ store.Add()      │          │ gateway.Create()     │
//	│  ├ validate      │          │      ↓               │
//	│  ├ append tmp-id │─────────→│ reconcile / flag     │
//	│  ├ notify        │  (mutex) │      ↓               │
//	│  └ OnChange()    │          │ OnChange()           │
//	└──────────────────┘          └──────────────────────┘
//
// The Store mediates between the goroutine that issues operations and the
// goroutines that finish them, ensuring:
//   - One entry per identifier (reconciliation upserts by id)
//   - Insertion order is kept; List adopts the server order
//   - Snapshots are copies; callers never share the internal slice
//
// # Entry Lifecycle
//
//	pending-create → synced | sync-failed
//	synced → pending-update → synced | sync-failed
//	synced → pending-delete → (removed) | sync-failed
//
// There is no automatic retry. List refreshes the whole collection but keeps
// entries whose update or delete is still in flight, and carries records not
// yet created on the server after the server records. Editing a record whose
// create failed creates it again; Discard drops a failed entry.
//
// # Deletes
//
// Remove hides the entry at once and keeps it in the store until the server
// confirms. A failed delete leaves the entry hidden and flagged, which means
// the local view can drift from the server until the next List. Snapshot
// counts these in FailedDeletes so the UI can point at them.
//
// # Errors
//
// Local problems (validation, unknown identifiers) are returned synchronously
// as *fault.ValidationError and *fault.NotFoundError. Remote problems during
// List are returned as *fault.FetchError. Remote problems during Add, Update
// and Remove are recorded on the entry and reported once through the
// notifier. Retrying an operation that fails again the same way does not
// report it a second time. Auth failures also call Options.OnAuthFailure.
//
// # Concurrency Model
//
// Calls on the same identifier are not serialized. Each operation stamps the
// entry with a revision; a response that arrives after a newer operation
// touched the entry is dropped, so the latest user action decides the state
// and the alert. Close makes the store ignore responses still in flight.
//
// # Testing Considerations
//
// Gateway is a four-method interface, so tests use in-memory fakes. Wait
// blocks until every background call has settled.
package state
