package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelflistapp/shelflist-server/internal/http/response"
	"github.com/shelflistapp/shelflist-server/internal/service"
)

// CreateUserListRequest represents the request body for subscribing to a list.
type CreateUserListRequest struct {
	ListID string `json:"list_id" validate:"required"`
}

// PatchUserListRequest represents the request body for updating a subscription.
type PatchUserListRequest struct {
	Notes *string `json:"notes"`
}

// handleCreateUserList subscribes the caller to a list. A record is seeded
// for each item already on the list.
func (s *Server) handleCreateUserList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req CreateUserListRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	userList, err := s.services.UserLists.Create(ctx, userID, req.ListID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, userList, s.logger)
}

// handleListUserLists returns all of the caller's subscriptions.
func (s *Server) handleListUserLists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	userLists, err := s.services.UserLists.FindAll(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, response.Collection(userLists), s.logger)
}

// handleGetUserList returns a single subscription by ID.
func (s *Server) handleGetUserList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	userList, err := s.services.UserLists.Get(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, userList, s.logger)
}

// handleGetPopulatedUserList returns a subscription together with its list,
// the list's items, and the caller's records, read from one snapshot.
func (s *Server) handleGetPopulatedUserList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	populated, err := s.services.UserLists.GetPopulated(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, populated, s.logger)
}

// handleListUserListItems returns the caller's records under one
// subscription. With ?populated=true each record carries the list item it
// tracks and the subscription it belongs to.
func (s *Server) handleListUserListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("populated") == "true" {
		records, err := s.services.UserItems.FindAllByUserListPopulated(ctx, userID, id)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		response.Success(w, response.Collection(records), s.logger)
		return
	}

	records, err := s.services.UserItems.FindAllByUserList(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, response.Collection(records), s.logger)
}

// handlePatchUserList updates a subscription's notes.
func (s *Server) handlePatchUserList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req PatchUserListRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	userList, err := s.services.UserLists.Patch(ctx, userID, id, service.UserListPatch{
		Notes: req.Notes,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, userList, s.logger)
}

// handleDeleteUserList removes a subscription and all of its records.
func (s *Server) handleDeleteUserList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.services.UserLists.Delete(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
