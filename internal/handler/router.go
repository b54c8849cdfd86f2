package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelanni/neurocram/internal/i18n"
)

// NewRouter wires the middleware stack and all routes. lang is the fallback
// response language.
func NewRouter(h *Handler, lang string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(i18n.Middleware(lang))
	h.Routes(r)
	return r
}
