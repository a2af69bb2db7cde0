package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/AssetHub/internal/usecase"
)

// UserHandler обслуживает профиль и избранные ассеты текущего пользователя.
type UserHandler struct {
	users  usecase.UserUseCase
	saved  usecase.SavedAssetUseCase
	logger *slog.Logger
}

func NewUserHandler(users usecase.UserUseCase, saved usecase.SavedAssetUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, saved: saved, logger: logger}
}

// Me: GET /user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondWithSuccess(w, http.StatusOK, envelope{"user": UserFromContext(r.Context())}, h.logger)
}

type updateMeRequest struct {
	Username string `json:"username"`
}

// UpdateMe: PATCH /user/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	user, err := h.users.UpdateUsername(r.Context(), UserFromContext(r.Context()), req.Username)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	h.logger.Info("username updated", "user_id", user.ID)
	respondWithSuccess(w, http.StatusOK, envelope{"user": user}, h.logger)
}

// ListSaved: GET /user/saved-assets?page=&limit=
func (h *UserHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageQuery(r)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	res, err := h.saved.List(r.Context(), CallerFromContext(r.Context()), page, limit)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"savedAssets": res.SavedAssets, "pagination": res.Pagination}, h.logger)
}

// Save: POST /user/saved-assets/{id}
func (h *UserHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	if err := h.saved.Save(r.Context(), CallerFromContext(r.Context()), id); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusCreated, nil, h.logger)
}

// Unsave: DELETE /user/saved-assets/{id}
func (h *UserHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	if err := h.saved.Unsave(r.Context(), UserFromContext(r.Context()), id); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, nil, h.logger)
}
