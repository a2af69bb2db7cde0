// Package handler содержит HTTP-обработчики, middleware и трансляцию доменных ошибок в статусы.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// envelope это тело ответа: success плюс поля конкретного обработчика.
type envelope map[string]any

// respondWithJSON: отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithSuccess добавляет success=true к полям ответа.
func respondWithSuccess(w http.ResponseWriter, code int, fields envelope, logger *slog.Logger) {
	body := envelope{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	respondWithJSON(w, code, body, logger)
}

// respondWithError: отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, envelope{"success": false, "error": message}, logger)
}

// respondWithDomainError переводит ошибку слоя usecase в HTTP-статус.
// Текст неизвестных ошибок клиенту не показывается.
func respondWithDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	code, message := translateError(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Info("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	respondWithError(w, code, message, logger)
}

func translateError(err error) (int, string) {
	var code int
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrFileNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	default:
		return http.StatusInternalServerError, "internal server error"
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return code, de.Message
	}
	return code, http.StatusText(code)
}

// uuidParam читает UUID из параметра маршрута chi.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Validationf("%s must be a valid UUID", name)
	}
	return id, nil
}

// intQuery читает целый query-параметр. Отсутствующий параметр даёт def.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validationf("%s must be an integer", name)
	}
	return v, nil
}

// decodeJSON разбирает тело запроса, неизвестные поля считаются ошибкой.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validationf("invalid JSON body: %v", err)
	}
	return nil
}

// Health: GET /healthz, проверяет доступность базы.
func Health(check func(ctx context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			logger.Error("health check failed", "error", err)
			respondWithError(w, http.StatusServiceUnavailable, "database unavailable", logger)
			return
		}
		respondWithSuccess(w, http.StatusOK, envelope{"status": "ok"}, logger)
	}
}
