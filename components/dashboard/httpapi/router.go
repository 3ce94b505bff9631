package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// NewRouter mounts the handlers on a chi router:
//
//	GET    /boards/{board}
//	GET    /widgets/{id}/control
//	POST   /widgets/{id}/submit
//	POST   /widgets/{id}/mount
//	POST   /widgets/{id}/refresh
//	PUT    /widgets/{id}
//	DELETE /widgets/{id}
//	GET    /events?board=  (SSE, when broadcast is set)
//	GET    /ws?board=      (WebSocket, when broadcast is set)
func NewRouter(h *Handlers, broadcast *dashboard.BroadcastHook) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/boards/{board}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleBoard(w, r, chi.URLParam(r, "board"))
	})
	r.Route("/widgets/{id}", func(r chi.Router) {
		r.Get("/control", withID(h.HandleControllerView))
		r.Post("/submit", withID(h.HandleSubmit))
		r.Post("/mount", withID(h.HandleMount))
		r.Post("/refresh", withID(h.HandleRefresh))
	})
	r.Put("/widgets/{id}", withID(h.HandleUpdate))
	r.Delete("/widgets/{id}", withID(h.HandleRemove))
	if broadcast != nil {
		r.Get("/events", broadcast.ServeSSE)
		r.Get("/ws", broadcast.ServeWebSocket)
	}
	return r
}

func withID(handle func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle(w, r, chi.URLParam(r, "id"))
	}
}
