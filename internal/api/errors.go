package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
)

// RespondJSON writes v as a JSON response body
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// RespondError writes a JSON error body with the given status
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

func BadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter) {
	RespondError(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func InternalServerError(w http.ResponseWriter, err error) {
	log.Printf("Internal error: %v", err)
	RespondError(w, http.StatusInternalServerError, "Internal server error")
}

// Error maps a service or repository failure to its HTTP status. Every
// handler funnels its errors through here so nothing crosses a request
// boundary uncaught.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrInsufficientStock):
		BadRequest(w, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(w)
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		NotFound(w, err.Error())
	default:
		InternalServerError(w, err)
	}
}
