package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shelflistapp/shelflist-server/internal/http/response"
	"github.com/shelflistapp/shelflist-server/internal/service"
)

// CreateItemRequest represents the request body for adding a book to a list.
type CreateItemRequest struct {
	ISBN    string `json:"isbn" validate:"required,min=10,max=17"`
	Ordinal int    `json:"ordinal" validate:"gte=0"`
}

// PatchItemRequest represents the request body for updating a list item.
// list_type is immutable; the service rejects patches naming it.
type PatchItemRequest struct {
	ISBN     *string `json:"isbn" validate:"omitempty,min=10,max=17"`
	Ordinal  *int    `json:"ordinal" validate:"omitempty,gte=0"`
	ListType *string `json:"list_type"`
}

// handleCreateItem adds a book to a list. Metadata is resolved from
// Open Library before anything is written.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	listID := chi.URLParam(r, "id")

	var req CreateItemRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	item, err := s.services.Items.Create(ctx, userID, listID, service.CreateItemInput{
		ISBN:    req.ISBN,
		Ordinal: req.Ordinal,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, item, s.logger)
}

// handleQueryItems returns the items of a list matching the query.
// Filter fields OR-combine; ordinal matches exactly.
func (s *Server) handleQueryItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	listID := chi.URLParam(r, "id")

	q := r.URL.Query()
	filter := service.ItemFilter{
		Title:   q.Get("title"),
		Author:  q.Get("author"),
		Subject: q.Get("subject"),
	}
	if ordinalStr := q.Get("ordinal"); ordinalStr != "" {
		ordinal, err := strconv.Atoi(ordinalStr)
		if err != nil {
			response.BadRequest(w, "Ordinal must be an integer", s.logger)
			return
		}
		filter.Ordinal = &ordinal
	}

	items, err := s.services.Items.FindByFilter(ctx, userID, listID, filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, response.Collection(items), s.logger)
}

// handleGetItem returns a single list item. Access derives from the
// item's parent list.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	item, err := s.services.Items.FindByID(ctx, userID, id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handlePatchItem updates a list item. A new ISBN refreshes the book metadata.
func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	var req PatchItemRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	item, err := s.services.Items.Patch(ctx, userID, id, service.ItemPatch{
		ISBN:     req.ISBN,
		Ordinal:  req.Ordinal,
		ListType: req.ListType,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handleDeleteItem removes a list item and every user's record of it.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := s.services.Items.Delete(ctx, userID, id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
