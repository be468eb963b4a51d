package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/notify"
)

// TempPrefix marks identifiers assigned locally before the server answers.
const TempPrefix = "tmp-"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Record is a domain value the store can key by its server identifier.
// RecordID returns "" for records the server has not assigned an id to.
type Record interface {
	RecordID() string
}

// Gateway performs the remote calls for one resource collection.
type Gateway[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, fields T) (T, error)
	Update(ctx context.Context, id string, fields T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Options configure a Store. Every field is optional.
type Options[T Record] struct {
	// Name labels the collection in log records and messages ("estoque").
	Name string
	// Validate runs before Add and Update mutate anything.
	Validate func(T) error
	// Label names a record in notifications; defaults to its identifier.
	Label func(T) string
	// Notifier receives one message per optimistic action and per failed sync.
	Notifier notify.Notifier
	// OnAuthFailure is invoked (outside the lock) whenever a gateway call
	// fails with an auth classification.
	OnAuthFailure func(error)
	// OnChange is invoked (outside the lock) after every local mutation and
	// every reconciliation.
	OnChange func()
	// Context is the parent of background sync calls.
	Context context.Context
	// NewID overrides temporary identifier generation.
	NewID func() string
	Logger *slog.Logger
}

// Store is an ordered, optimistic view of a remote collection.
type Store[T Record] struct {
	gateway Gateway[T]
	opts    Options[T]
	log     *slog.Logger

	mu          sync.RWMutex
	entries     []Entry[T]
	seq         uint64
	loaded      bool
	closed      bool
	lastErr     error
	lastUpdated time.Time

	inflight sync.WaitGroup
}

// New builds a Store backed by gateway.
func New[T Record](gateway Gateway[T], opts Options[T]) *Store[T] {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return TempPrefix + uuid.NewString() }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Name != "" {
		logger = logger.With("resource", opts.Name)
	}
	return &Store[T]{gateway: gateway, opts: opts, log: logger}
}

// IsTemporaryID reports whether id was assigned locally.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// List fetches the full collection and replaces the local state with it.
// Entries with an update or delete in flight keep their local state, and
// records not yet created on the server follow the server records, so the
// outcome of every in-flight sync still lands on its entry. A failure keeps
// the previous collection, except before the first successful List, when the
// collection is emptied. The returned entries are the visible ones.
func (s *Store[T]) List(ctx context.Context) ([]Entry[T], error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	records, err := s.gateway.List(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.lastUpdated = time.Now()
	if err != nil {
		ferr := classify(OpList, err)
		if !s.loaded {
			s.entries = nil
		}
		s.lastErr = ferr
		s.mu.Unlock()

		s.log.Warn("list failed", "kind", ferr.Kind.String(), "error", ferr)
		s.changed()
		if ferr.Kind == fault.KindAuth {
			s.authFailed(ferr)
		}
		return nil, ferr
	}

	inflight := make(map[string]Entry[T])
	for _, e := range s.entries {
		if e.State == PendingUpdate || e.State == PendingDelete {
			inflight[e.ID] = e
		}
	}
	entries := make([]Entry[T], 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		id := rec.RecordID()
		if id == "" {
			s.log.Warn("list returned record without id")
			continue
		}
		if _, dup := seen[id]; dup {
			s.log.Warn("list returned duplicate id", "id", id)
			continue
		}
		seen[id] = struct{}{}
		if e, ok := inflight[id]; ok {
			entries = append(entries, e)
			continue
		}
		s.seq++
		entries = append(entries, Entry[T]{ID: id, Fields: rec, State: Synced, rev: s.seq})
	}
	for _, e := range s.entries {
		if e.Temporary() {
			entries = append(entries, e)
		}
	}
	s.entries = entries
	s.loaded = true
	s.lastErr = nil
	out := s.visibleLocked()
	s.mu.Unlock()

	s.log.Debug("list refreshed", "count", len(out))
	s.changed()
	return out, nil
}

// Add validates fields, appends them under a temporary identifier and
// creates the record remotely in the background. It returns the temporary
// identifier.
func (s *Store[T]) Add(fields T) (string, error) {
	if err := s.validate(fields); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	id := s.opts.NewID()
	for s.indexLocked(id) >= 0 {
		id = s.opts.NewID()
	}
	s.seq++
	rev := s.seq
	s.entries = append(s.entries, Entry[T]{ID: id, Fields: fields, State: PendingCreate, Op: OpCreate, rev: rev})
	s.mu.Unlock()

	s.opts.Notifier.Notify(s.label(fields, id)+" added", notify.Success)
	s.changed()
	s.goCreate(id, rev, fields)
	return id, nil
}

// Update patches the record with the given identifier locally and sends the
// result to the server in the background. Local changes are kept when the
// sync fails.
func (s *Store[T]) Update(id string, patch func(*T)) error {
	return s.Modify(id, func(rec *T) error {
		if patch != nil {
			patch(rec)
		}
		return nil
	})
}

// Modify is Update with a patch that may refuse the change. A patch error
// is returned as is and leaves the store untouched.
func (s *Store[T]) Modify(id string, patch func(*T) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	idx := s.indexLocked(id)
	if idx < 0 || s.entries[idx].Hidden() {
		s.mu.Unlock()
		return &fault.NotFoundError{ID: id}
	}
	entry := s.entries[idx]
	if entry.State == PendingCreate {
		s.mu.Unlock()
		return fault.Invalid("", "record is still being created, try again shortly")
	}

	fields := entry.Fields
	if patch != nil {
		if err := patch(&fields); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	if err := s.validate(fields); err != nil {
		s.mu.Unlock()
		return err
	}

	// A record whose create never reached the server is created again.
	recreate := entry.Temporary()
	op := OpUpdate
	if recreate {
		op = OpCreate
	}
	s.seq++
	rev := s.seq
	entry.retry = entry.State == SyncFailed && entry.Op == op
	entry.Fields = fields
	entry.rev = rev
	if recreate {
		entry.State, entry.Op = PendingCreate, OpCreate
	} else {
		entry.State, entry.Op = PendingUpdate, OpUpdate
	}
	s.entries[idx] = entry
	s.mu.Unlock()

	s.opts.Notifier.Notify(s.label(fields, id)+" updated", notify.Success)
	s.changed()
	if recreate {
		s.goCreate(id, rev, fields)
	} else {
		s.goUpdate(id, rev, fields)
	}
	return nil
}

// Remove hides the record immediately and deletes it remotely in the
// background. It must only be called once a confirmation gate has approved
// the deletion. When the remote delete fails the record stays hidden and is
// flagged until the next List or an explicit Discard.
func (s *Store[T]) Remove(id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	idx := s.indexLocked(id)
	if idx < 0 || s.entries[idx].Hidden() {
		s.mu.Unlock()
		return &fault.NotFoundError{ID: id}
	}
	entry := s.entries[idx]
	switch {
	case entry.State == PendingCreate:
		s.mu.Unlock()
		return fault.Invalid("", "record is still being created, try again shortly")
	case entry.Temporary():
		// Never reached the server; nothing to delete remotely.
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		s.mu.Unlock()
		s.opts.Notifier.Notify(s.label(entry.Fields, id)+" removed", notify.Success)
		s.changed()
		return nil
	}
	s.seq++
	rev := s.seq
	entry.State, entry.Op, entry.Err, entry.rev, entry.retry = PendingDelete, OpDelete, nil, rev, false
	s.entries[idx] = entry
	s.mu.Unlock()

	s.opts.Notifier.Notify(s.label(entry.Fields, id)+" removed", notify.Success)
	s.changed()
	s.goDelete(id, rev, entry.Fields)
	return nil
}

// Discard drops a record whose last sync failed. It is the caller's explicit
// acknowledgement of a failed create or a failed delete.
func (s *Store[T]) Discard(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return &fault.NotFoundError{ID: id}
	}
	if s.entries[idx].State != SyncFailed {
		s.mu.Unlock()
		return fault.Invalid("", "only records whose sync failed can be discarded")
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.mu.Unlock()

	s.changed()
	return nil
}

// Get returns the entry with the given identifier, including hidden ones.
func (s *Store[T]) Get(id string) (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Entry[T]{}, false
	}
	return s.entries[idx], true
}

// Items returns the visible collection in insertion order. Records with a
// delete in flight or a failed delete are omitted.
func (s *Store[T]) Items() []Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleLocked()
}

func (s *Store[T]) visibleLocked() []Entry[T] {
	out := make([]Entry[T], 0, len(s.entries))
	for _, e := range s.entries {
		if !e.Hidden() {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns every entry the store holds, hidden ones included.
func (s *Store[T]) Entries() []Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Len returns the number of visible records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if !e.Hidden() {
			n++
		}
	}
	return n
}

// Loaded reports whether a List has ever succeeded.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of the store state for rendering.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot[T]{
		Name:        s.opts.Name,
		Loaded:      s.loaded,
		LastUpdated: s.lastUpdated,
	}
	snap.LastError = s.lastErr
	for _, e := range s.entries {
		switch {
		case e.Hidden():
			if e.State == SyncFailed {
				snap.FailedDeletes++
			} else {
				snap.Pending++
			}
			continue
		case e.State == PendingCreate || e.State == PendingUpdate:
			snap.Pending++
		case e.State == SyncFailed:
			snap.Failed++
		}
		snap.Items = append(snap.Items, e)
	}
	return snap
}

// Wait blocks until every background sync started so far has settled.
func (s *Store[T]) Wait() {
	s.inflight.Wait()
}

// Close stops the store from applying the results of in-flight calls. It
// does not cancel them.
func (s *Store[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store[T]) goCreate(tempID string, rev uint64, fields T) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		created, err := s.gateway.Create(s.opts.Context, fields)
		if err == nil && created.RecordID() == "" {
			err = fault.Malformed(OpCreate.String(), 0, errors.New("created record has no id"))
		}
		if err != nil {
			s.syncFailed(tempID, rev, OpCreate, fields, err)
			return
		}
		s.reconcileCreate(tempID, created)
	}()
}

func (s *Store[T]) goUpdate(id string, rev uint64, fields T) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		updated, err := s.gateway.Update(s.opts.Context, id, fields)
		if err != nil {
			s.syncFailed(id, rev, OpUpdate, fields, err)
			return
		}
		s.mu.Lock()
		idx := s.indexLocked(id)
		if s.closed || idx < 0 || s.entries[idx].rev != rev {
			s.mu.Unlock()
			return
		}
		entry := s.entries[idx]
		if updated.RecordID() != "" {
			entry.Fields = updated
		}
		entry.State, entry.Err, entry.retry = Synced, nil, false
		s.entries[idx] = entry
		s.mu.Unlock()
		s.changed()
	}()
}

func (s *Store[T]) goDelete(id string, rev uint64, fields T) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.gateway.Delete(s.opts.Context, id); err != nil {
			s.syncFailed(id, rev, OpDelete, fields, err)
			return
		}
		s.mu.Lock()
		idx := s.indexLocked(id)
		if s.closed || idx < 0 || s.entries[idx].rev != rev {
			s.mu.Unlock()
			return
		}
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		s.mu.Unlock()
		s.changed()
	}()
}

// reconcileCreate swaps the temporary entry for the server record. The
// temporary identifier disappears; if the server id is already present (a
// List raced the create) the temporary entry is folded into it.
func (s *Store[T]) reconcileCreate(tempID string, created T) {
	serverID := created.RecordID()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	synced := Entry[T]{ID: serverID, Fields: created, State: Synced, rev: s.seq}
	tempIdx := s.indexLocked(tempID)
	serverIdx := s.indexLocked(serverID)
	switch {
	case tempIdx >= 0 && serverIdx >= 0:
		s.entries[serverIdx] = synced
		s.entries = append(s.entries[:tempIdx], s.entries[tempIdx+1:]...)
	case tempIdx >= 0:
		s.entries[tempIdx] = synced
	case serverIdx < 0:
		// A List replaced the collection before the server stored the record.
		s.entries = append(s.entries, synced)
	}
	s.mu.Unlock()

	s.log.Debug("create reconciled", "temp_id", tempID, "id", serverID)
	s.changed()
}

// syncFailed flags the entry and emits one notification. Results of calls
// superseded by a newer operation on the same entry are dropped, and a retry
// that fails the way the entry is already flagged stays quiet. An entry that
// is gone still gets its notification.
func (s *Store[T]) syncFailed(id string, rev uint64, op Op, fields T, err error) {
	ferr := classify(op, err)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	quiet := false
	if idx := s.indexLocked(id); idx >= 0 {
		entry := s.entries[idx]
		if entry.rev != rev {
			s.mu.Unlock()
			s.log.Debug("stale sync failure ignored", "id", id, "op", op.String(), "error", ferr)
			return
		}
		quiet = entry.retry
		entry.State, entry.Op, entry.Err = SyncFailed, op, ferr
		s.entries[idx] = entry
	}
	s.mu.Unlock()

	s.log.Warn("sync failed", "id", id, "op", op.String(), "kind", ferr.Kind.String(), "error", ferr, "repeat", quiet)
	if !quiet {
		kind := notify.Warning
		if ferr.Kind == fault.KindAuth {
			kind = notify.Error
		}
		s.opts.Notifier.Notify(fmt.Sprintf("could not %s %s: %s", op.verb(), s.label(fields, id), fault.UserMessage(ferr)), kind)
	}
	s.changed()
	if ferr.Kind == fault.KindAuth {
		s.authFailed(ferr)
	}
}

func (s *Store[T]) validate(fields T) error {
	if s.opts.Validate == nil {
		return nil
	}
	if err := s.opts.Validate(fields); err != nil {
		var verr *fault.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return fault.Invalid("", err.Error())
	}
	return nil
}

func (s *Store[T]) label(fields T, id string) string {
	if s.opts.Label != nil {
		if l := strings.TrimSpace(s.opts.Label(fields)); l != "" {
			return l
		}
	}
	return id
}

func (s *Store[T]) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

func (s *Store[T]) authFailed(err error) {
	if s.opts.OnAuthFailure != nil {
		s.opts.OnAuthFailure(err)
	}
}

func (s *Store[T]) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store[T]) indexLocked(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func classify(op Op, err error) *fault.FetchError {
	var ferr *fault.FetchError
	if errors.As(err, &ferr) {
		if ferr.Op == "" {
			dup := *ferr
			dup.Op = op.String()
			return &dup
		}
		return ferr
	}
	return fault.FromTransport(op.String(), err)
}

func cloneEntries[T Record](entries []Entry[T]) []Entry[T] {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Entry[T], len(entries))
	copy(dup, entries)
	return dup
}
