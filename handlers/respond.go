package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fieldops/pagination"
)

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// pageFromQuery builds a Paginator for a list endpoint from the standard
// page/limit query parameters.
func pageFromQuery(r *http.Request, totalItems int) *pagination.Paginator {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))

	return pagination.New(totalItems, limit, page)
}
