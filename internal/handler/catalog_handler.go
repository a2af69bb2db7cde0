package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/AssetHub/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler отдаёт игры, категории и теги и принимает правки администратора.
type CatalogHandler struct {
	catalog usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewCatalogHandler(catalog usecase.CatalogUseCase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.ListGames(r.Context())
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"games": games}, h.logger)
}

func (h *CatalogHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.catalog.GetGame(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"game": game}, h.logger)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"categories": categories}, h.logger)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"category": category}, h.logger)
}

func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.ListTags(r.Context())
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"tags": tags}, h.logger)
}

type slugNameRequest struct {
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// CreateGame: POST /game (admin)
func (h *CatalogHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req slugNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	game, err := h.catalog.CreateGame(r.Context(), req.Name, req.Slug)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusCreated, envelope{"game": game}, h.logger)
}

type updateGameRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// UpdateGame: PATCH /game/{id} (admin)
func (h *CatalogHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	var req updateGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	game, err := h.catalog.UpdateGame(r.Context(), id, usecase.GameUpdate{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"game": game}, h.logger)
}

// CreateCategory: POST /category (admin)
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req slugNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), req.Name, req.Slug)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusCreated, envelope{"category": category}, h.logger)
}

// CreateTag: POST /tag (admin)
func (h *CatalogHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req slugNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	tag, err := h.catalog.CreateTag(r.Context(), req.Name, req.Slug, req.Color)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusCreated, envelope{"tag": tag}, h.logger)
}

// LinkGameCategory: POST /game/{id}/category/{categoryId} (admin)
func (h *CatalogHandler) LinkGameCategory(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	categoryID, err := uuidParam(r, "categoryId")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	if err := h.catalog.LinkGameCategory(r.Context(), gameID, categoryID); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusCreated, nil, h.logger)
}
