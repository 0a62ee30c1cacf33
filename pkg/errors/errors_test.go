package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeIncompleteForm, http.StatusBadRequest},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeSessionNotFound, http.StatusNotFound},
		{CodeItemNotFound, http.StatusNotFound},
		{CodeInFlight, http.StatusConflict},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeLLMProviderError, http.StatusBadGateway},
		{CodeGenerationFailed, http.StatusInternalServerError},
		{CodeCacheError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus; got != tt.want {
			t.Errorf("code %s: expected %d, got %d", tt.code, tt.want, got)
		}
	}
}

func TestWithErrorDoesNotMutatePredefined(t *testing.T) {
	cause := fmt.Errorf("boom")
	wrapped := ErrGenerationFailed.WithError(cause)

	if ErrGenerationFailed.Err != nil {
		t.Fatal("predefined error was mutated")
	}
	if !errors.Is(wrapped, ErrGenerationFailed) {
		t.Error("expected wrapped error to match ErrGenerationFailed by code")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to unwrap to cause")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrItemNotFound)
	if !IsAppError(wrapped) {
		t.Fatal("expected IsAppError through wrapping")
	}
	if got := AsAppError(wrapped); got.Code != CodeItemNotFound {
		t.Errorf("expected code %s, got %s", CodeItemNotFound, got.Code)
	}

	plain := AsAppError(fmt.Errorf("plain"))
	if plain.Code != CodeUnknown {
		t.Errorf("expected unknown code, got %s", plain.Code)
	}
}
