package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c *controller) Mux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Get("/healthz", c.healthz)
	r.HandleFunc("/ws", c.ws)

	return r
}

func (c *controller) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
