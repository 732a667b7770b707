package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dstanisic/pulsefeed/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("limit must be positive")

	if err.Error() != "limit must be positive" {
		t.Errorf("expected 'limit must be positive', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid sort key", inner)

	if err.Error() != "invalid sort key: parse failed" {
		t.Errorf("expected 'invalid sort key: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("empty batch")

	wrapped := fmt.Errorf("failed to ingest: %w", original)
	doubleWrapped := fmt.Errorf("handler error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "empty batch" {
		t.Errorf("expected 'empty batch', got %q", ve.Message)
	}
}

func TestNotFoundError_Message(t *testing.T) {
	err := apperr.NewNotFound("profile", "user-42")

	if err.Error() != "profile not found: user-42" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestReferenceError_CarriesInvalidIDs(t *testing.T) {
	err := apperr.NewReference("invalid topic ids", []string{"a", "b"})

	if err.Error() != "invalid topic ids: a, b" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var re *apperr.ReferenceError
	wrapped := fmt.Errorf("create article: %w", err)
	if !errors.As(wrapped, &re) {
		t.Fatal("errors.As should find ReferenceError")
	}
	if len(re.InvalidIDs) != 2 {
		t.Errorf("expected 2 invalid ids, got %d", len(re.InvalidIDs))
	}
}

func TestConflictError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ce *apperr.ConflictError
	if errors.As(wrapped, &ce) {
		t.Fatal("errors.As should NOT find ConflictError in plain error chain")
	}
}

func TestUpstreamError_KindSurvivesWrapping(t *testing.T) {
	inner := fmt.Errorf("429 from endpoint")
	err := apperr.NewUpstreamWrap(apperr.KindRateLimitExceeded, "completion call failed", inner)

	wrapped := fmt.Errorf("analyze article: %w", err)

	var ue *apperr.UpstreamError
	if !errors.As(wrapped, &ue) {
		t.Fatal("errors.As should find UpstreamError")
	}
	if ue.Kind != apperr.KindRateLimitExceeded {
		t.Errorf("expected rate_limit_exceeded kind, got %q", ue.Kind)
	}
	if !errors.Is(wrapped, inner) {
		t.Error("expected chain to reach inner error")
	}
}

func TestConsistencyError_Message(t *testing.T) {
	inner := fmt.Errorf("insert associations failed")
	err := apperr.NewConsistencyWrap("topic association failed", inner)

	if err.Error() != "topic association failed: insert associations failed" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}
