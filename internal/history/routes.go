package history

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the read-only history endpoints onto the given router
// under the /history prefix.
func RegisterRoutes(r chi.Router, store *Store) {
	h := handler{store: store}
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/backups", h.backups)
		r.Get("/{index}", h.get)
	})
}
