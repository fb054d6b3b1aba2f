package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/http/response"
	"github.com/shelflistapp/shelflist-server/internal/service"
)

// CreateUserItemRequest represents the request body for recording a book
// under one of the caller's subscriptions.
type CreateUserItemRequest struct {
	UserListID     string `json:"user_list_id" validate:"required"`
	BookListItemID string `json:"book_list_item_id" validate:"required"`
	Notes          string `json:"notes"`
	Status         string `json:"status" validate:"omitempty,oneof=not_started in_progress completed"`
	Owned          bool   `json:"owned"`
}

// PatchUserItemRequest represents the request body for updating a record.
type PatchUserItemRequest struct {
	Notes  *string `json:"notes"`
	Status *string `json:"status" validate:"omitempty,oneof=not_started in_progress completed"`
	Owned  *bool   `json:"owned"`
}

// handleCreateUserItem adds a record to one of the caller's subscriptions.
func (s *Server) handleCreateUserItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req CreateUserItemRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	record, err := s.services.UserItems.Create(ctx, userID, service.CreateUserItemInput{
		UserListID:     req.UserListID,
		BookListItemID: req.BookListItemID,
		Notes:          req.Notes,
		Status:         domain.ReadingStatus(req.Status),
		Owned:          req.Owned,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, record, s.logger)
}

// handleListUserItems returns all of the caller's records across subscriptions.
func (s *Server) handleListUserItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	records, err := s.services.UserItems.FindAll(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, response.Collection(records), s.logger)
}

// handleGetUserItem returns a single record by ID.
func (s *Server) handleGetUserItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	record, err := s.services.UserItems.FindByID(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// handlePatchUserItem updates a record's notes, status, or owned flag.
func (s *Server) handlePatchUserItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req PatchUserItemRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	patch := service.UserItemPatch{
		Notes: req.Notes,
		Owned: req.Owned,
	}
	if req.Status != nil {
		status := domain.ReadingStatus(*req.Status)
		patch.Status = &status
	}

	record, err := s.services.UserItems.Patch(ctx, userID, id, patch)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// handleDeleteUserItem removes a record and detaches it from its subscription.
func (s *Server) handleDeleteUserItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.services.UserItems.Delete(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
