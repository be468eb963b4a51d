package state

import "time"

// SyncState tracks how a local entry relates to the server copy.
type SyncState int

const (
	Synced SyncState = iota
	PendingCreate
	PendingUpdate
	PendingDelete
	SyncFailed
)

func (s SyncState) String() string {
	switch s {
	case PendingCreate:
		return "pending-create"
	case PendingUpdate:
		return "pending-update"
	case PendingDelete:
		return "pending-delete"
	case SyncFailed:
		return "sync-failed"
	default:
		return "synced"
	}
}

// Op is the remote operation an entry last went through.
type Op int

const (
	OpList Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "list"
	}
}

func (o Op) verb() string {
	switch o {
	case OpCreate:
		return "save"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "load"
	}
}

// Entry is one record of the collection together with its sync metadata.
type Entry[T Record] struct {
	ID     string
	Fields T
	State  SyncState
	Op     Op
	Err    error

	rev   uint64 // operation that last touched the entry
	retry bool   // flagged as failed for the same op when rev was issued
}

// Temporary reports whether the entry still carries a locally assigned id.
func (e Entry[T]) Temporary() bool {
	return IsTemporaryID(e.ID)
}

// Hidden reports whether the entry is excluded from the visible collection:
// a delete is in flight or has failed.
func (e Entry[T]) Hidden() bool {
	return e.State == PendingDelete || (e.State == SyncFailed && e.Op == OpDelete)
}

// Snapshot is a rendering-friendly copy of a Store.
type Snapshot[T Record] struct {
	Name          string
	Items         []Entry[T] // visible entries in order
	Loaded        bool
	LastError     error
	LastUpdated   time.Time
	Pending       int // syncs in flight
	Failed        int // visible entries whose sync failed
	FailedDeletes int // hidden entries whose delete failed
}

// IsEmpty reports whether there is nothing to show.
func (s Snapshot[T]) IsEmpty() bool {
	return len(s.Items) == 0
}
