package db

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RawDoc is one document as delivered by the store: its ID and its raw
// field map, before any normalization.
type RawDoc struct {
	ID   string
	Data map[string]interface{}
}

// WatchError is a structured subscription failure. Code distinguishes
// permission problems (recoverable by re-authenticating) from transport
// failures.
type WatchError struct {
	Code    string
	Message string
}

// CodePermissionDenied marks failures caused by missing store permissions.
const CodePermissionDenied = "permission-denied"

func (e *WatchError) Error() string {
	return e.Code + ": " + e.Message
}

// IsPermissionDenied reports whether the failure requires re-authentication.
func (e *WatchError) IsPermissionDenied() bool {
	return e.Code == CodePermissionDenied
}

func classifyWatchError(err error) *WatchError {
	st, ok := status.FromError(err)
	if !ok {
		return &WatchError{Code: "unknown", Message: err.Error()}
	}
	if st.Code() == codes.PermissionDenied {
		return &WatchError{Code: CodePermissionDenied, Message: st.Message()}
	}
	return &WatchError{Code: st.Code().String(), Message: st.Message()}
}

// watcher serializes callback delivery for one subscription and drops
// everything once detached, even callbacks already in flight.
type watcher struct {
	mu       sync.Mutex
	detached bool
	cancel   context.CancelFunc
}

func (w *watcher) deliver(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.detached {
		return
	}
	fn()
}

// detach closes the subscription. Safe to call any number of times; only
// the first call has an effect.
func (w *watcher) detach() {
	w.mu.Lock()
	if w.detached {
		w.mu.Unlock()
		return
	}
	w.detached = true
	w.mu.Unlock()
	w.cancel()
}

// watch registers a live snapshot listener on the query. Every server-side
// change delivers the full current matching set to onData; a listener
// failure delivers a structured error to onError and ends the stream. The
// returned func detaches the listener and is idempotent.
func (db *FirestoreDB) watch(query firestore.Query, onData func([]RawDoc), onError func(*WatchError)) func() {
	ctx, cancel := context.WithCancel(db.ctx)
	w := &watcher{cancel: cancel}

	go func() {
		snapshots := query.Snapshots(ctx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				w.deliver(func() { onError(classifyWatchError(err)) })
				return
			}

			docs, err := collect(snap.Documents)
			if err != nil {
				w.deliver(func() { onError(classifyWatchError(err)) })
				return
			}
			w.deliver(func() { onData(docs) })
		}
	}()

	return w.detach
}

// WatchClients subscribes to the full client collection.
func (db *FirestoreDB) WatchClients(onData func([]RawDoc), onError func(*WatchError)) func() {
	return db.watch(db.client.Collection(colClients).Query, onData, onError)
}

// WatchEquipment subscribes to equipment, optionally scoped to one client.
func (db *FirestoreDB) WatchEquipment(clientID string, onData func([]RawDoc), onError func(*WatchError)) func() {
	query := db.client.Collection(colEquipment).Query
	if clientID != "" {
		query = query.Where("client_id", "==", clientID)
	}
	return db.watch(query, onData, onError)
}

// WatchTasks subscribes to tasks, optionally scoped to one technician.
func (db *FirestoreDB) WatchTasks(technicianID string, onData func([]RawDoc), onError func(*WatchError)) func() {
	query := db.client.Collection(colTasks).Query
	if technicianID != "" {
		query = query.Where("technician_id", "==", technicianID)
	}
	return db.watch(query, onData, onError)
}

// WatchUsers subscribes to the full user collection.
func (db *FirestoreDB) WatchUsers(onData func([]RawDoc), onError func(*WatchError)) func() {
	return db.watch(db.client.Collection(colUsers).Query, onData, onError)
}

// WatchTemplates subscribes to the full template collection.
func (db *FirestoreDB) WatchTemplates(onData func([]RawDoc), onError func(*WatchError)) func() {
	return db.watch(db.client.Collection(colTemplates).Query, onData, onError)
}
