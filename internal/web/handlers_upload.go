package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/examplan/internal/core"
)

var errNoFile = errors.New("no file provided")

// multipartMemory is the part of a form held in memory; the rest spills to disk.
const multipartMemory = 8 << 20

// UploadResponse describes a newly activated schedule.
type UploadResponse struct {
	Plan     string               `json:"plan"`
	Schedule core.ScheduleSummary `json:"schedule"`
	Headers  []string             `json:"headers"`
	Placed   int                  `json:"placed"`
}

// handleUpload parses an uploaded PDF and makes it the current schedule of a plan.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Parse.MaxFileSize
	// Leave room for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > maxSize {
		respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
		return
	}

	name := strings.TrimSpace(r.FormValue("plan"))
	if name == "" {
		name = s.defaultPlanName()
	}

	ctx := WithRequestMetadata(r.Context(), r)
	sched, err := s.service.Activate(ctx, name, header.Filename, data)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Location", ViewState{Plan: name}.URL("/"))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, UploadResponse{
		Plan:     name,
		Schedule: sched.Summary(),
		Headers:  sched.Headers,
		Placed:   sched.Placed,
	})
}

// defaultPlanName is the plan an upload replaces when the form names none.
func (s *Server) defaultPlanName() string {
	for _, p := range s.service.Plans() {
		if p.Default {
			return p.Name
		}
	}
	if s.cfg.Sources.DefaultPlan != "" {
		return s.cfg.Sources.DefaultPlan
	}
	return "default"
}
