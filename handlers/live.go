package handlers

import (
	"net/http"

	"fieldops/db"
	"fieldops/middleware"
	"fieldops/models"
	"fieldops/normalize"
	"fieldops/view"
)

// LiveHandler serves the console's real-time tables from the live mirrored
// views instead of issuing a Firestore read per request. Each view keeps
// its own subscription for the life of the process; snapshot pushes arrive
// independently, so one table may update before another.
type LiveHandler struct {
	clients   *view.View[models.Client]
	equipment *view.EquipmentView
	tasks     *view.TaskView
	users     *view.View[models.User]
	templates *view.View[models.Template]
}

// NewLiveHandler opens the collection views. Equipment and tasks are opened
// unscoped; per-request scoping happens in memory.
func NewLiveHandler(store *db.FirestoreDB) *LiveHandler {
	return &LiveHandler{
		clients:   view.Clients(store),
		equipment: view.Equipment(store, ""),
		tasks:     view.Tasks(store, ""),
		users:     view.Users(store),
		templates: view.Templates(store),
	}
}

// Close detaches all subscriptions.
func (h *LiveHandler) Close() {
	h.clients.Close()
	h.equipment.Close()
	h.tasks.Close()
	h.users.Close()
	h.templates.Close()
}

// liveResponse is the wire shape of one live table: the visible page of
// items plus the view's loading/error state.
type liveResponse struct {
	Items      interface{} `json:"items"`
	Count      int         `json:"count"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Loading    bool        `json:"loading"`
	Error      string      `json:"error,omitempty"`
}

func writeLive[T any](w http.ResponseWriter, r *http.Request, items []T, loading bool, errMsg string) {
	pager := pageFromQuery(r, len(items))
	start, end := pager.Window()

	writeJSON(w, http.StatusOK, liveResponse{
		Items:      items[start:end],
		Count:      len(items),
		Page:       pager.CurrentPage(),
		TotalPages: pager.TotalPages(),
		Loading:    loading,
		Error:      errMsg,
	})
}

// Clients serves the live client table with derived equipment counts,
// composed from the client and equipment views.
func (h *LiveHandler) Clients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := h.clients.State()
	equipmentState := h.equipment.State()

	countsByClient := make(map[string]int)
	for _, unit := range equipmentState.Items {
		countsByClient[unit.ClientID]++
	}

	rows := make([]ClientRow, 0, len(state.Items))
	for _, client := range state.Items {
		rows = append(rows, ClientRow{
			Client:         client,
			EquipmentCount: countsByClient[client.ClientID],
		})
	}

	writeLive(w, r, rows, state.Loading, state.Error)
}

// Equipment serves the live equipment table, optionally filtered to one
// client via the client_id query parameter.
func (h *LiveHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := h.equipment.State()
	items := state.Items
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		filtered := make([]models.Equipment, 0, len(items))
		for _, unit := range items {
			if unit.ClientID == clientID {
				filtered = append(filtered, unit)
			}
		}
		items = filtered
	}

	writeLive(w, r, items, state.Loading, state.Error)
}

// Tasks serves the live task table, optionally filtered by technician and
// status, sorted by schedule. Technicians only ever see their own tasks,
// same as the task list endpoint.
func (h *LiveHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	state := h.tasks.State()

	query := r.URL.Query()
	var status models.TaskStatus
	if raw := query.Get("status"); raw != "" {
		status = normalize.TaskStatus(raw)
	}

	technicianID := effectiveTechnician(user, query.Get("technician_id"))
	items := filterTasks(state.Items, technicianID, status)
	sortTasksBySchedule(items)

	writeLive(w, r, items, state.Loading, state.Error)
}

// Users serves the live user table.
func (h *LiveHandler) Users(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := h.users.State()
	writeLive(w, r, state.Items, state.Loading, state.Error)
}

// Templates serves the live template table.
func (h *LiveHandler) Templates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := h.templates.State()
	writeLive(w, r, state.Items, state.Loading, state.Error)
}
