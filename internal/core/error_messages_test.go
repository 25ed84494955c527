package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "decoder failure",
			err:         fmt.Errorf("%w: unexpected EOF in xref", ErrDecode),
			wantCode:    "PDF001",
			wantMessage: "The document could not be decoded",
		},
		{
			name:        "no pages",
			err:         fmt.Errorf("parse plan.pdf: %w", ErrNoPages),
			wantCode:    "PDF002",
			wantMessage: "The document contains no pages with text",
		},
		{
			name:        "encrypted wins over decode",
			err:         fmt.Errorf("%w: %w: bad password", ErrDecode, ErrEncrypted),
			wantCode:    "PDF003",
			wantMessage: "The document is password protected",
		},
		{
			name:        "encrypted library error without sentinel",
			err:         errors.New("file is encrypted"),
			wantCode:    "PDF003",
			wantMessage: "The document is password protected",
		},
		{
			name:        "not a pdf",
			err:         ErrNotPDF,
			wantCode:    "PDF004",
			wantMessage: "The file is not a PDF document",
		},
		{
			name:        "header mismatch",
			err:         &HeaderMismatchError{Mode: BindByLabel, Expected: 28, Found: 27},
			wantCode:    "HDR001",
			wantMessage: "The table header does not match the known columns",
		},
		{
			name:        "limiter busy",
			err:         ErrTooManyParses,
			wantCode:    "UPL001",
			wantMessage: "Too many documents are being parsed",
		},
		{
			name:        "unknown plan",
			err:         fmt.Errorf("%w: %q", ErrUnknownPlan, "sose"),
			wantCode:    "PLAN001",
			wantMessage: "No exam plan with this name is loaded",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB001",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "deadline",
			err:         errors.New("context deadline exceeded"),
			wantCode:    "DB002",
			wantMessage: "The operation timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "file name cannot override header mismatch",
			err:         fmt.Errorf("parse password-plan.pdf: %w", &HeaderMismatchError{Mode: BindByLabel, Expected: 28, Found: 27}),
			wantCode:    "HDR001",
			wantMessage: "The table header does not match the known columns",
		},
		{
			name:        "file name cannot override decode failure",
			err:         fmt.Errorf("parse timeout-encrypted.pdf: %w", fmt.Errorf("%w: xref", ErrDecode)),
			wantCode:    "PDF001",
			wantMessage: "The document could not be decoded",
		},
		{
			name:        "plan name cannot override unknown plan",
			err:         fmt.Errorf("%w: %q", ErrUnknownPlan, "rate limit"),
			wantCode:    "PLAN001",
			wantMessage: "No exam plan with this name is loaded",
		},
		{
			name:        "context deadline",
			err:         fmt.Errorf("parse plan.pdf: %w", context.DeadlineExceeded),
			wantCode:    "DB002",
			wantMessage: "The operation timed out",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("FILE TOO LARGE: 40MB"),
			wantCode:    "UPL003",
			wantMessage: "The file exceeds the upload limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError().Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrEmptyFile)
	want := "The uploaded file is empty (Code: UPL004). Please upload the exam plan PDF"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrNoPages, true},
		{errors.New("nil pointer dereference"), false},
	}
	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Error("NewUserError(nil) should return nil")
	}

	technical := fmt.Errorf("load sose: %w", ErrUnknownPlan)
	ue := NewUserError(technical)
	if ue.User.Code != "PLAN001" {
		t.Errorf("Code = %q, want PLAN001", ue.User.Code)
	}
	if !errors.Is(ue, ErrUnknownPlan) {
		t.Error("UserError should unwrap to the technical error")
	}
	if ue.Error() != ue.User.Message {
		t.Errorf("Error() = %q, want %q", ue.Error(), ue.User.Message)
	}
}
