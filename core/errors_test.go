package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Wrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDomainError(ModuleService, ErrorCodeUnavailable, "rerank gateway unreachable", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the wrapped cause")
	}
	if got := err.Error(); got != "rerank gateway unreachable: connection refused" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := fmt.Errorf("recall: %w", err)
	if !IsUnavailable(wrapped) {
		t.Errorf("IsUnavailable should see through fmt.Errorf wrapping")
	}
	if got := GetDomainError(wrapped); got == nil || got.Module != ModuleService {
		t.Errorf("GetDomainError(wrapped) = %v", got)
	}
}

func TestErrorChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{name: "invalid input", err: NewDomainError(ModuleRecall, ErrorCodeInvalidInput, "seed out of range"), check: IsInvalidInput, want: true},
		{name: "unavailable", err: NewDomainError(ModuleVector, ErrorCodeUnavailable, "snapshot not loaded"), check: IsUnavailable, want: true},
		{name: "not found", err: ErrStoreNotFound, check: IsNotFound, want: true},
		{name: "store not found helper", err: ErrStoreNotFound, check: IsStoreNotFound, want: true},
		{name: "plain error", err: errors.New("boom"), check: IsInvalidInput, want: false},
		{name: "nil error", err: nil, check: IsUnavailable, want: false},
		{name: "code mismatch", err: NewDomainError(ModuleRecall, ErrorCodeInvalidInput, "x"), check: IsUnavailable, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
