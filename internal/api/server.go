// Package api provides the HTTP API server and handlers for the Shelflist application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelflistapp/shelflist-server/internal/auth"
	"github.com/shelflistapp/shelflist-server/internal/http/response"
	"github.com/shelflistapp/shelflist-server/internal/ratelimit"
	"github.com/shelflistapp/shelflist-server/internal/service"
	"github.com/shelflistapp/shelflist-server/internal/validation"
)

// Services bundles the business services the handlers depend on.
type Services struct {
	Lists     *service.ListService
	Items     *service.BookListItemService
	UserLists *service.UserListService
	UserItems *service.BookUserListItemService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	tokens    *auth.TokenService
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	router    *chi.Mux
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, tokens *auth.TokenService, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		services:  services,
		tokens:    tokens,
		validator: validation.New(),
		limiter:   limiter,
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1. All resource routes require a verified token.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", s.handleCreateList)
			r.Get("/", s.handleQueryLists)
			r.Get("/{id}", s.handleGetList)
			r.Patch("/{id}", s.handlePatchList)
			r.Delete("/{id}", s.handleDeleteList)
			r.Post("/{id}/items", s.handleCreateItem)
			r.Get("/{id}/items", s.handleQueryItems)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/{id}", s.handleGetItem)
			r.Patch("/{id}", s.handlePatchItem)
			r.Delete("/{id}", s.handleDeleteItem)
		})

		r.Route("/userlists", func(r chi.Router) {
			r.Post("/", s.handleCreateUserList)
			r.Get("/", s.handleListUserLists)
			r.Get("/{id}", s.handleGetUserList)
			r.Get("/{id}/populated", s.handleGetPopulatedUserList)
			r.Get("/{id}/items", s.handleListUserListItems)
			r.Patch("/{id}", s.handlePatchUserList)
			r.Delete("/{id}", s.handleDeleteUserList)
		})

		r.Route("/useritems", func(r chi.Router) {
			r.Post("/", s.handleCreateUserItem)
			r.Get("/", s.handleListUserItems)
			r.Get("/{id}", s.handleGetUserItem)
			r.Patch("/{id}", s.handlePatchUserItem)
			r.Delete("/{id}", s.handleDeleteUserItem)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
