package web

// errors.go provides unified error response handling for the web layer.
//
// Technical errors are logged with the request id. Clients get the mapped
// core.UserError as JSON for /api/ routes and as an HTML page otherwise.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/JonMunkholm/examplan/internal/web/templates"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical side of err and writes the user side.
// Errors with a known code are logged at warn, everything else at error.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	ue := core.NewUserError(err)

	level := slog.LevelError
	if core.IsUserFacing(err) {
		level = slog.LevelWarn
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", ue.Technical.Error(),
		"code", ue.User.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if wantsJSON(r) {
		respondErrorJSON(w, ue, statusCode)
	} else {
		respondErrorHTML(w, r, ue.User, statusCode)
	}
}

// statusFor picks the HTTP status for an error returned by the service.
func statusFor(err error) int {
	var mismatch *core.HeaderMismatchError
	switch {
	case errors.Is(err, core.ErrUnknownPlan):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyParses):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile), errors.Is(err, core.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.As(err, &mismatch),
		errors.Is(err, core.ErrNotPDF),
		errors.Is(err, core.ErrDecode),
		errors.Is(err, core.ErrNoPages):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondErrorJSON(w http.ResponseWriter, ue *core.UserError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   core.FormatUserError(ue.Technical),
		Message: ue.Error(),
		Action:  ue.User.Action,
		Code:    ue.User.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
