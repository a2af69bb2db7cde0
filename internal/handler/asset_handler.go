package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/catalog"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/usecase"
	"github.com/google/uuid"
)

// запас на поля формы и заголовки multipart сверх размера файла
const multipartOverhead = 1 << 20

// AssetHandler: обработчик HTTP-запросов для ассетов, модерации и истории скачиваний.
type AssetHandler struct {
	assets     usecase.AssetUseCase
	moderation usecase.ModerationUseCase
	history    usecase.HistoryUseCase
	logger     *slog.Logger
}

func NewAssetHandler(
	assets usecase.AssetUseCase,
	moderation usecase.ModerationUseCase,
	history usecase.HistoryUseCase,
	logger *slog.Logger,
) *AssetHandler {
	return &AssetHandler{
		assets:     assets,
		moderation: moderation,
		history:    history,
		logger:     logger,
	}
}

// Search: GET /asset/search
func (h *AssetHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	res, err := h.assets.Search(r.Context(), CallerFromContext(r.Context()), params)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	h.logger.Debug("search completed", "count", len(res.Assets), "offset", params.Offset)
	respondWithSuccess(w, http.StatusOK, envelope{"assets": res.Assets, "pagination": res.Pagination}, h.logger)
}

// ApprovalQueue: GET /asset/approval-queue (admin)
func (h *AssetHandler) ApprovalQueue(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	// очередь по умолчанию от старых к новым
	if r.URL.Query().Get("sortBy") == "" && r.URL.Query().Get("sortOrder") == "" {
		params.SortBy, params.SortOrder = "", ""
	}

	res, err := h.moderation.ApprovalQueue(r.Context(), params)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"assets": res.Assets, "pagination": res.Pagination}, h.logger)
}

// GetAsset: GET /asset/{id}
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	asset, err := h.assets.GetAsset(r.Context(), CallerFromContext(r.Context()), id)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"asset": asset}, h.logger)
}

// Upload: POST /asset/upload, multipart: name, gameId, categoryId, isSuggestive, tags, file
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(usecase.MaxUploadSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusBadRequest, "file exceeds maximum size of 10MB", h.logger)
			return
		}
		respondWithError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	in, err := uploadInputFromForm(r)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	asset, err := h.assets.Upload(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	respondWithSuccess(w, http.StatusCreated, envelope{"asset": asset}, h.logger)
}

func uploadInputFromForm(r *http.Request) (usecase.UploadInput, error) {
	in := usecase.UploadInput{Name: r.FormValue("name")}

	var err error
	if in.GameID, err = uuid.Parse(r.FormValue("gameId")); err != nil {
		return in, domain.Validationf("gameId must be a valid UUID")
	}
	if in.CategoryID, err = uuid.Parse(r.FormValue("categoryId")); err != nil {
		return in, domain.Validationf("categoryId must be a valid UUID")
	}
	if raw := r.FormValue("isSuggestive"); raw != "" {
		if raw == "on" {
			in.IsSuggestive = true
		} else if in.IsSuggestive, err = strconv.ParseBool(raw); err != nil {
			return in, domain.Validationf("isSuggestive must be a boolean")
		}
	}
	for _, raw := range catalog.SplitList(r.FormValue("tags")) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return in, domain.Validationf("tag id %q is not a valid UUID", raw)
		}
		in.TagIDs = append(in.TagIDs, id)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return in, domain.Validationf("file is required")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, usecase.MaxUploadSize+1))
	if err != nil {
		return in, domain.Validationf("failed to read file")
	}
	in.Content = content
	in.FileName = header.Filename
	in.ContentType = header.Header.Get("Content-Type")
	return in, nil
}

// Approve: POST /asset/{id}/approve (admin)
func (h *AssetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	if err := h.moderation.Approve(r.Context(), UserFromContext(r.Context()), id); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, nil, h.logger)
}

// Deny: POST /asset/{id}/deny (admin)
func (h *AssetHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	if err := h.moderation.Deny(r.Context(), UserFromContext(r.Context()), id); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, nil, h.logger)
}

// Delete: DELETE /asset/{id} (admin)
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	if err := h.assets.Delete(r.Context(), id); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, nil, h.logger)
}

type recordHistoryRequest struct {
	AssetIDs []string `json:"assetIds"`
}

// RecordHistory: POST /asset/history
func (h *AssetHandler) RecordHistory(w http.ResponseWriter, r *http.Request) {
	var req recordHistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	historyID, err := h.history.Record(r.Context(), UserFromContext(r.Context()), req.AssetIDs)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusCreated, envelope{"historyId": historyID}, h.logger)
}

// ListHistory: GET /asset/history?page=&limit=
func (h *AssetHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageQuery(r)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}

	res, err := h.history.List(r.Context(), CallerFromContext(r.Context()), page, limit)
	if err != nil {
		respondWithDomainError(w, r, err, h.logger)
		return
	}
	respondWithSuccess(w, http.StatusOK, envelope{"history": res.History, "pagination": res.Pagination}, h.logger)
}

// parseSearchParams разбирает фильтры, сортировку и offset|page с limit.
func parseSearchParams(r *http.Request) (usecase.SearchParams, error) {
	q := r.URL.Query()

	sortBy, ok := domain.ParseSortKey(q.Get("sortBy"))
	if !ok {
		return usecase.SearchParams{}, domain.Validationf("sortBy must be one of recent, viewCount, downloadCount, name")
	}
	sortOrder, ok := domain.ParseSortOrder(q.Get("sortOrder"))
	if !ok {
		return usecase.SearchParams{}, domain.Validationf("sortOrder must be asc or desc")
	}

	params := usecase.SearchParams{
		Name:       strings.TrimSpace(q.Get("name")),
		Games:      catalog.SplitList(q.Get("games")),
		Categories: catalog.SplitList(q.Get("categories")),
		Tags:       catalog.SplitList(q.Get("tags")),
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	}

	limit, err := intQuery(r, "limit", domain.DefaultPageSize)
	if err != nil {
		return params, err
	}
	if limit <= 0 {
		return params, domain.Validationf("limit must be positive")
	}
	params.Limit = min(limit, domain.MaxPageSize)

	if q.Has("page") {
		page, err := intQuery(r, "page", 1)
		if err != nil {
			return params, err
		}
		if page < 1 {
			return params, domain.Validationf("page must be at least 1")
		}
		params.Offset = (page - 1) * params.Limit
		return params, nil
	}

	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		return params, err
	}
	if offset < 0 {
		return params, domain.Validationf("offset must not be negative")
	}
	params.Offset = offset
	return params, nil
}

// pageQuery разбирает page (с 1) и limit для постраничных списков.
func pageQuery(r *http.Request) (int, int, error) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := intQuery(r, "limit", domain.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, domain.Validationf("page must be at least 1")
	}
	if limit <= 0 {
		return 0, 0, domain.Validationf("limit must be positive")
	}
	return page, limit, nil
}
