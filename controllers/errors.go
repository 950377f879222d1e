package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/billow-homes/homes-api/models"
	"github.com/go-chi/render"
)

type ContextKey string

const UserIDKey = ContextKey("userID")

// WriteError is the single place errors become HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := models.ErrorResponse{Error: err.Error()}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, r, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAmbiguousMatch):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// NotFound answers any request no route matched.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	}
}

func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
	}
}
