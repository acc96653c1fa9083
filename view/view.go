// Package view maintains live, normalized mirrors of the Firestore
// collections. Each view owns exactly one subscription and exposes the
// items/loading/error triple the console tables render from. Snapshot
// callbacks arrive on the watch goroutine, so all state is mutex-guarded.
package view

import (
	"fmt"
	"sync"

	"fieldops/db"
	"fieldops/models"
	"fieldops/normalize"
)

// PermissionDeniedMessage is shown whenever the store rejects a
// subscription for lack of permissions; the fix is to log in again.
const PermissionDeniedMessage = "Insufficient permissions. Please log in again."

// Subscribe opens a live subscription and returns its detach func.
type Subscribe func(onData func([]db.RawDoc), onError func(*db.WatchError)) func()

// State is one consistent observation of a view: the mirrored items, the
// loading flag and the mapped error message ("" on success).
type State[T any] struct {
	Items   []T    `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// View mirrors one collection into local state.
type View[T any] struct {
	entity string
	parse  func(id string, data map[string]interface{}) T

	mu      sync.Mutex
	gen     int
	closed  bool
	detach  func()
	items   []T
	loading bool
	errMsg  string
}

// newView opens a view immediately: the state starts loading and empty,
// then follows the subscription.
func newView[T any](entity string, subscribe Subscribe, parse func(string, map[string]interface{}) T) *View[T] {
	v := &View[T]{entity: entity, parse: parse}
	v.open(subscribe)
	return v
}

// open (re)starts the view on a subscription. The generation counter fences
// off callbacks from any previous subscription: a push from a torn-down
// scope can never leak into the new state.
func (v *View[T]) open(subscribe Subscribe) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.closed = false
	v.loading = true
	v.errMsg = ""
	v.items = nil
	v.mu.Unlock()

	detach := subscribe(
		func(docs []db.RawDoc) { v.onData(gen, docs) },
		func(werr *db.WatchError) { v.onError(gen, werr) },
	)

	v.mu.Lock()
	if v.gen == gen && !v.closed {
		v.detach = detach
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	// The view was closed or rescoped while subscribing.
	detach()
}

func (v *View[T]) onData(gen int, docs []db.RawDoc) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		items = append(items, v.parse(doc.ID, doc.Data))
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return
	}
	// Full replace: each push is a complete snapshot, never a merge.
	v.items = items
	v.loading = false
	v.errMsg = ""
}

func (v *View[T]) onError(gen int, werr *db.WatchError) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return
	}
	v.loading = false
	if werr.IsPermissionDenied() {
		v.errMsg = PermissionDeniedMessage
	} else {
		v.errMsg = fmt.Sprintf("Error loading %s: %s", v.entity, werr.Message)
	}
	// Items keep their last successful value; still empty if no push
	// ever succeeded.
}

// State returns a copy of the current state.
func (v *View[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]T, len(v.items))
	copy(items, v.items)
	return State[T]{Items: items, Loading: v.loading, Error: v.errMsg}
}

// Close detaches the subscription. Idempotent; once closed, queued
// callbacks are dropped without mutating state.
func (v *View[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.gen++
	detach := v.detach
	v.detach = nil
	v.mu.Unlock()

	if detach != nil {
		detach()
	}
}

// Clients opens a live view of all clients.
func Clients(store *db.FirestoreDB) *View[models.Client] {
	return newView("clients", store.WatchClients, normalize.ParseClient)
}

// Users opens a live view of all user accounts.
func Users(store *db.FirestoreDB) *View[models.User] {
	return newView("users", store.WatchUsers, normalize.ParseUser)
}

// Templates opens a live view of all protocol templates.
func Templates(store *db.FirestoreDB) *View[models.Template] {
	return newView("templates", store.WatchTemplates, normalize.ParseTemplate)
}

// EquipmentView is a client-scoped live view of equipment. Changing the
// scope tears the subscription down and reopens it; no stale items from
// the previous client survive the switch.
type EquipmentView struct {
	*View[models.Equipment]
	watch func(clientID string) Subscribe
}

// Equipment opens a live equipment view, optionally scoped to one client
// (empty clientID watches everything).
func Equipment(store *db.FirestoreDB, clientID string) *EquipmentView {
	return newEquipmentView(func(clientID string) Subscribe {
		return func(onData func([]db.RawDoc), onError func(*db.WatchError)) func() {
			return store.WatchEquipment(clientID, onData, onError)
		}
	}, clientID)
}

func newEquipmentView(watch func(clientID string) Subscribe, clientID string) *EquipmentView {
	return &EquipmentView{
		View:  newView("equipment", watch(clientID), normalize.ParseEquipment),
		watch: watch,
	}
}

// SetScope switches the view to another client's equipment.
func (e *EquipmentView) SetScope(clientID string) {
	e.Close()
	e.open(e.watch(clientID))
}

// TaskView is a technician-scoped live view of service tasks.
type TaskView struct {
	*View[models.Task]
	watch func(technicianID string) Subscribe
}

// Tasks opens a live task view, optionally scoped to one technician.
func Tasks(store *db.FirestoreDB, technicianID string) *TaskView {
	return newTaskView(func(technicianID string) Subscribe {
		return func(onData func([]db.RawDoc), onError func(*db.WatchError)) func() {
			return store.WatchTasks(technicianID, onData, onError)
		}
	}, technicianID)
}

func newTaskView(watch func(technicianID string) Subscribe, technicianID string) *TaskView {
	return &TaskView{
		View:  newView("tasks", watch(technicianID), normalize.ParseTask),
		watch: watch,
	}
}

// SetScope switches the view to another technician's tasks.
func (t *TaskView) SetScope(technicianID string) {
	t.Close()
	t.open(t.watch(technicianID))
}
