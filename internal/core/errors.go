package core

import "errors"

var (
	// ErrNoPages is returned when a document yields no page with text.
	ErrNoPages = errors.New("no pages with text in document")

	// ErrDecode marks a failure of the PDF decoder. It is terminal for the
	// parse that hit it and is never retried.
	ErrDecode = errors.New("decode pdf")

	// ErrEncrypted accompanies ErrDecode when the decoder refused a
	// password-protected document.
	ErrEncrypted = errors.New("pdf is encrypted")

	// ErrNotPDF is returned for input that lacks a PDF header.
	ErrNotPDF = errors.New("not a pdf document")

	// ErrEmptyFile is returned for zero-length uploads.
	ErrEmptyFile = errors.New("empty file")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnknownPlan is returned when a plan name is not loaded.
	ErrUnknownPlan = errors.New("unknown plan")
)
