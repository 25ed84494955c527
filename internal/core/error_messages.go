// Error codes reference.
//
// This file defines user-friendly error messages with codes for support reference.
// Error codes are grouped by category:
//
// # PDF Errors (PDF001-PDF099)
//
//	PDF001 - Unreadable PDF: The document could not be decoded
//	         Action: Check that the file opens in a PDF viewer and upload it again
//	         Sentinel: ErrDecode; patterns: "malformed pdf"
//
//	PDF002 - No pages: The document contains no pages with text
//	         Action: Upload the exam plan PDF, not a scan
//	         Sentinel: ErrNoPages
//
//	PDF003 - Encrypted: The document is password protected
//	         Action: Export an unprotected copy of the plan
//	         Sentinel: ErrEncrypted; patterns: "encrypted", "password"
//
//	PDF004 - Not a PDF: The file is not a PDF document
//	         Action: Select the exam plan PDF
//	         Sentinel: ErrNotPDF; patterns: "not a pdf"
//
// # Header Errors (HDR001-HDR099)
//
//	HDR001 - Header mismatch: The table header does not match the known columns
//	         Action: The plan layout changed; report the file to the maintainers
//	         Type: *HeaderMismatchError; patterns: "header mismatch"
//
//	HDR002 - Invalid layout: The parser layout settings are inconsistent
//	         Action: Check the PARSE_* settings
//	         Patterns: "invalid layout"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: Too many documents are being parsed
//	UPL002 - No file: No file was selected
//	UPL003 - File too large: The file exceeds the upload limit
//	UPL004 - Empty file: The uploaded file is empty
//
// # Plan Errors (PLAN001-PLAN099)
//
//	PLAN001 - Unknown plan: No exam plan with this name is loaded
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	DB002 - Timeout: The operation timed out
//	DB003 - Connection reset: Database connection was interrupted
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs
// for the technical error.
//
// # Pattern Matching
//
// A *HeaderMismatchError or a sentinel in the error chain decides the code
// first. Errors without one are matched case-insensitively against text
// patterns with strings.Contains; the first matching pattern wins.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage is the user-facing side of an error, with a code for support.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgUnreadable = UserMessage{
		Message: "The document could not be decoded",
		Action:  "Check that the file opens in a PDF viewer and upload it again",
		Code:    "PDF001",
	}
	msgNoPages = UserMessage{
		Message: "The document contains no pages with text",
		Action:  "Upload the exam plan PDF, not a scan",
		Code:    "PDF002",
	}
	msgEncrypted = UserMessage{
		Message: "The document is password protected",
		Action:  "Export an unprotected copy of the plan",
		Code:    "PDF003",
	}
	msgNotPDF = UserMessage{
		Message: "The file is not a PDF document",
		Action:  "Select the exam plan PDF",
		Code:    "PDF004",
	}
	msgHeaderMismatch = UserMessage{
		Message: "The table header does not match the known columns",
		Action:  "The plan layout changed; report the file to the maintainers",
		Code:    "HDR001",
	}
	msgBusy = UserMessage{
		Message: "Too many documents are being parsed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}
	msgTooLarge = UserMessage{
		Message: "The file exceeds the upload limit",
		Action:  "Upload the plan without embedded attachments",
		Code:    "UPL003",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload the exam plan PDF",
		Code:    "UPL004",
	}
	msgUnknownPlan = UserMessage{
		Message: "No exam plan with this name is loaded",
		Action:  "Pick a plan from the list",
		Code:    "PLAN001",
	}
	msgTimeout = UserMessage{
		Message: "The operation timed out",
		Action:  "Please try again later",
		Code:    "DB002",
	}
)

// errorSentinels is checked with errors.Is before any text matching, so
// user-supplied text inside an error (a file or plan name) cannot change
// the code. ErrEncrypted precedes ErrDecode, which it always accompanies.
var errorSentinels = []struct {
	target error
	msg    UserMessage
}{
	{ErrEncrypted, msgEncrypted},
	{ErrNotPDF, msgNotPDF},
	{ErrDecode, msgUnreadable},
	{ErrNoPages, msgNoPages},
	{ErrTooManyParses, msgBusy},
	{ErrFileTooLarge, msgTooLarge},
	{ErrEmptyFile, msgEmptyFile},
	{ErrUnknownPlan, msgUnknownPlan},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPatterns covers errors without a sentinel, such as driver and
// library errors. It is checked in order; the first match wins.
var errorPatterns = []errorPattern{
	// PDF Errors (PDF001-PDF004)
	{pattern: "encrypted", msg: msgEncrypted},
	{pattern: "password", msg: msgEncrypted},
	{pattern: "not a pdf", msg: msgNotPDF},
	{pattern: "malformed pdf", msg: msgUnreadable},

	// Header Errors (HDR001-HDR002)
	{pattern: "header mismatch", msg: msgHeaderMismatch},
	{
		pattern: "invalid layout",
		msg: UserMessage{
			Message: "The parser layout settings are inconsistent",
			Action:  "Check the PARSE_* settings",
			Code:    "HDR002",
		},
	},

	// Upload Errors (UPL001-UPL004)
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a PDF file to upload",
			Code:    "UPL002",
		},
	},
	{pattern: "file too large", msg: msgTooLarge},

	// Database Errors (DB001-DB003)
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{pattern: "timeout", msg: msgTimeout},
	{pattern: "deadline exceeded", msg: msgTimeout},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},

	// Rate Limiting (RATE001)
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage (ERR000) covers everything without a pattern. The
// technical error is only in the logs.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError returns the message for err. Typed and sentinel errors in the
// chain decide first; otherwise the first pattern contained in the
// lower-cased error text wins, with ERR000 as the fallback.
//
//	MapError(fmt.Errorf("parse: %w", ErrNoPages)).Code // "PDF002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var mismatch *HeaderMismatchError
	if errors.As(err, &mismatch) {
		return msgHeaderMismatch
	}
	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(text, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != defaultMessage.Code
}

// UserError keeps the technical error next to its mapped message.
// Error returns the user text; Unwrap returns the technical error.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string { return e.User.Message }

func (e *UserError) Unwrap() error { return e.Technical }

// NewUserError maps err. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
