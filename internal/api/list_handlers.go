package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/http/response"
	"github.com/shelflistapp/shelflist-server/internal/service"
)

// CreateListRequest represents the request body for creating a list.
type CreateListRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
	Type        string `json:"type" validate:"required"`
	IsPublic    bool   `json:"is_public"`
}

// PatchListRequest represents the request body for updating a list.
// Type and owner_id are accepted here only so the service can reject them
// explicitly instead of silently dropping unknown fields.
type PatchListRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	IsPublic    *bool   `json:"is_public"`
	Type        *string `json:"type"`
	OwnerID     *string `json:"owner_id"`
}

// handleCreateList creates a new list owned by the caller.
func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req CreateListRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	list, err := s.services.Lists.Create(ctx, userID, service.CreateListInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Type:        domain.ListType(req.Type),
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, list, s.logger)
}

// handleQueryLists returns the caller-visible lists matching the query.
// Filter fields OR-combine; owner_only narrows to lists the caller owns.
func (s *Server) handleQueryLists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	q := r.URL.Query()
	filter := service.ListFilter{
		Title:       q.Get("title"),
		Description: q.Get("description"),
		Category:    q.Get("category"),
		Type:        q.Get("type"),
		OwnerOnly:   q.Get("owner_only") == "true",
	}

	lists, err := s.services.Lists.FindByFilter(ctx, userID, filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, response.Collection(lists), s.logger)
}

// handleGetList returns a single list by ID.
func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	list, err := s.services.Lists.Get(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, list, s.logger)
}

// handlePatchList updates a list's mutable fields.
func (s *Server) handlePatchList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req PatchListRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	list, err := s.services.Lists.Patch(ctx, userID, id, service.ListPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsPublic:    req.IsPublic,
		Type:        req.Type,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, list, s.logger)
}

// handleDeleteList deletes a list and everything hanging off it.
func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.services.Lists.Delete(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
