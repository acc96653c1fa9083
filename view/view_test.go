package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/db"
	"fieldops/models"
)

// fakeSubscription drives a view by hand: tests push snapshots and errors
// through the captured callbacks and observe detach calls.
type fakeSubscription struct {
	onData      func([]db.RawDoc)
	onError     func(*db.WatchError)
	detachCount int
}

func (f *fakeSubscription) subscribe(onData func([]db.RawDoc), onError func(*db.WatchError)) func() {
	f.onData = onData
	f.onError = onError
	return func() { f.detachCount++ }
}

func parseName(id string, data map[string]interface{}) models.Client {
	name, _ := data["name"].(string)
	return models.Client{ClientID: id, Name: name}
}

func docs(ids ...string) []db.RawDoc {
	out := make([]db.RawDoc, 0, len(ids))
	for _, id := range ids {
		out = append(out, db.RawDoc{ID: id, Data: map[string]interface{}{"name": "Client " + id}})
	}
	return out
}

func TestViewStartsLoading(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)
	defer v.Close()

	state := v.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Items)
	assert.Empty(t, state.Error)
}

func TestViewFullReplaceOnEachPush(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)
	defer v.Close()

	sub.onData(docs("a", "b", "c"))

	state := v.State()
	assert.False(t, state.Loading)
	require.Len(t, state.Items, 3)

	// A later snapshot without "b" fully replaces the mirror; deleted
	// documents never linger.
	sub.onData(docs("a", "c"))

	state = v.State()
	require.Len(t, state.Items, 2)
	assert.Equal(t, "a", state.Items[0].ClientID)
	assert.Equal(t, "c", state.Items[1].ClientID)
}

func TestViewPermissionDenied(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)
	defer v.Close()

	sub.onError(&db.WatchError{Code: db.CodePermissionDenied, Message: "Missing or insufficient permissions."})

	state := v.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Items)
	assert.Equal(t, PermissionDeniedMessage, state.Error)
}

func TestViewErrorMessageNamesEntity(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("tasks", sub.subscribe, parseName)
	defer v.Close()

	sub.onError(&db.WatchError{Code: "unavailable", Message: "deadline exceeded"})

	state := v.State()
	assert.Equal(t, "Error loading tasks: deadline exceeded", state.Error)
}

func TestViewErrorKeepsLastItems(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)
	defer v.Close()

	sub.onData(docs("a", "b"))
	sub.onError(&db.WatchError{Code: "unavailable", Message: "stream reset"})

	state := v.State()
	assert.NotEmpty(t, state.Error)
	assert.Len(t, state.Items, 2)
}

func TestViewRecoveryClearsError(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)
	defer v.Close()

	sub.onError(&db.WatchError{Code: "unavailable", Message: "stream reset"})
	sub.onData(docs("a"))

	state := v.State()
	assert.Empty(t, state.Error)
	assert.Len(t, state.Items, 1)
}

func TestViewCloseIsIdempotent(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)

	v.Close()
	v.Close()
	v.Close()

	assert.Equal(t, 1, sub.detachCount)
}

func TestViewDropsCallbacksAfterClose(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)

	sub.onData(docs("a"))
	v.Close()

	// Pushes queued behind the close must not resurrect state.
	sub.onData(docs("a", "b", "c"))
	sub.onError(&db.WatchError{Code: "unavailable", Message: "late"})

	state := v.State()
	assert.Len(t, state.Items, 1)
	assert.Empty(t, state.Error)
}

// fakeScopedWatch hands out one fake subscription per scope key, so tests
// can drive old and new scopes independently.
type fakeScopedWatch struct {
	subs map[string]*fakeSubscription
}

func newFakeScopedWatch() *fakeScopedWatch {
	return &fakeScopedWatch{subs: make(map[string]*fakeSubscription)}
}

func (f *fakeScopedWatch) watch(scope string) Subscribe {
	sub := &fakeSubscription{}
	f.subs[scope] = sub
	return sub.subscribe
}

func equipmentDocs(clientID string, ids ...string) []db.RawDoc {
	out := make([]db.RawDoc, 0, len(ids))
	for _, id := range ids {
		out = append(out, db.RawDoc{ID: id, Data: map[string]interface{}{"client_id": clientID}})
	}
	return out
}

func TestEquipmentViewSetScope(t *testing.T) {
	watch := newFakeScopedWatch()
	v := newEquipmentView(watch.watch, "client-a")

	watch.subs["client-a"].onData(equipmentDocs("client-a", "unit-1", "unit-2"))
	require.Len(t, v.State().Items, 2)

	v.SetScope("client-b")
	defer v.Close()

	assert.Equal(t, 1, watch.subs["client-a"].detachCount)

	// Fresh scope starts loading and empty; nothing from client-a survives.
	state := v.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Items)

	// A straggler push from the old scope is fenced off.
	watch.subs["client-a"].onData(equipmentDocs("client-a", "unit-1", "unit-2", "unit-3"))
	state = v.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Items)

	// The new scope populates normally.
	watch.subs["client-b"].onData(equipmentDocs("client-b", "unit-9"))
	state = v.State()
	assert.False(t, state.Loading)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "unit-9", state.Items[0].EquipmentID)
	assert.Equal(t, "client-b", state.Items[0].ClientID)
}

func TestTaskViewSetScope(t *testing.T) {
	watch := newFakeScopedWatch()
	v := newTaskView(watch.watch, "tech-a")

	watch.subs["tech-a"].onData([]db.RawDoc{
		{ID: "task-1", Data: map[string]interface{}{"technician_id": "tech-a"}},
	})
	require.Len(t, v.State().Items, 1)

	v.SetScope("tech-b")
	defer v.Close()

	assert.Equal(t, 1, watch.subs["tech-a"].detachCount)
	assert.Empty(t, v.State().Items)

	watch.subs["tech-b"].onData([]db.RawDoc{
		{ID: "task-2", Data: map[string]interface{}{"technician_id": "tech-b"}},
	})

	state := v.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "task-2", state.Items[0].TaskID)
	assert.Equal(t, "tech-b", state.Items[0].TechnicianID)
}

func TestViewStateReturnsCopy(t *testing.T) {
	sub := &fakeSubscription{}
	v := newView("clients", sub.subscribe, parseName)
	defer v.Close()

	sub.onData(docs("a", "b"))

	state := v.State()
	state.Items[0].Name = "mutated"

	assert.Equal(t, "Client a", v.State().Items[0].Name)
}
