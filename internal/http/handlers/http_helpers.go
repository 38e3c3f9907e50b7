package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
	repo "github.com/rogerio-castellano/catalog-manager/internal/repo"
	"github.com/rogerio-castellano/catalog-manager/internal/validation"
)

// errInvalidInput marks request bodies that could not be decoded.
var errInvalidInput = errors.New("invalid input")

// ErrTooManyRequests is reported by the rate limiting middleware.
var ErrTooManyRequests = errors.New("too many requests")

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: failed to read JSON: %v", errInvalidInput, err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return fmt.Errorf("%w: body must have only a single json value", errInvalidInput)
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data and logs encoding failures.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.WithField("request_id", middleware.GetReqID(r.Context())).WithError(err).Error("failed to write JSON response")
	}
}

// writeError maps err to a status code and error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respond(w, r, http.StatusUnprocessableEntity, ErrorResponse{Message: "The given data was invalid.", Errors: verrs})
	case errors.Is(err, auth.ErrUnauthenticated):
		respond(w, r, http.StatusUnauthorized, ErrorResponse{Message: "Unauthenticated."})
	case errors.Is(err, auth.ErrForbidden):
		respond(w, r, http.StatusForbidden, ErrorResponse{Message: "This action is unauthorized."})
	case errors.Is(err, repo.ErrProductNotFound):
		respond(w, r, http.StatusNotFound, ErrorResponse{Message: "Product not found"})
	case errors.Is(err, repo.ErrCategoryNotFound):
		respond(w, r, http.StatusNotFound, ErrorResponse{Message: "Category not found"})
	case errors.Is(err, auth.ErrUserExists):
		respond(w, r, http.StatusBadRequest, AuthErrorResponse{Error: "User already exists", Message: "User with this email already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond(w, r, http.StatusUnauthorized, AuthErrorResponse{Error: "Unauthorized", Message: "Invalid email or password"})
	case errors.Is(err, ErrTooManyRequests):
		respond(w, r, http.StatusTooManyRequests, ErrorResponse{Message: "Too Many Attempts."})
	case errors.Is(err, errInvalidInput):
		respond(w, r, http.StatusBadRequest, ErrorResponse{Message: "invalid input"})
	default:
		logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		respond(w, r, http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}

// WriteError exposes the error mapping to the router's middleware.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err)
}
