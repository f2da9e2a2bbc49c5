package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"calc-ledger/internal/handlers"
	"calc-ledger/internal/observability"
)

// ListResponse is the JSON body for GET /history.
type ListResponse struct {
	Count  int     `json:"count"`
	Groups []Group `json:"groups"`
}

// BackupsResponse is the JSON body for GET /history/backups.
type BackupsResponse struct {
	Backups []string `json:"backups"`
}

type handler struct {
	store *Store
}

// list handles GET /history
func (h handler) list(w http.ResponseWriter, r *http.Request) {
	groups := h.store.List()
	handlers.WriteJSON(w, http.StatusOK, ListResponse{Count: len(groups), Groups: groups})
}

// get handles GET /history/{index}
func (h handler) get(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	g, err := h.store.Get(n)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, ErrIndex) && n <= 0 {
			status = http.StatusBadRequest
		}
		handlers.WriteError(w, status, err.Error())
		return
	}
	handlers.WriteJSON(w, http.StatusOK, g)
}

// backups handles GET /history/backups
func (h handler) backups(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.Backups()
	if err != nil {
		observability.LoggerWithTrace(r.Context()).Error("listing backups failed",
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(r.Context())),
		)
		handlers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	handlers.WriteJSON(w, http.StatusOK, BackupsResponse{Backups: ids})
}
