package services_test

import (
	"errors"
	"strings"
	"testing"

	"arrscore/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "radarr", "fetch movies", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"radarr", "fetch movies", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestRetryableClassification(t *testing.T) {
	authErr := services.Wrap(services.ErrUnauthorized, "sonarr", "fetch series", "status 401", nil)
	if services.Retryable(authErr) {
		t.Fatal("auth failures must not be retried")
	}

	missingErr := services.Wrap(services.ErrNotFound, "radarr", "fetch movie file", "", nil)
	if services.Retryable(missingErr) {
		t.Fatal("missing resources must not be retried")
	}

	transientErr := services.Wrap(services.ErrTransient, "radarr", "fetch movies", "status 503", nil)
	if !services.Retryable(transientErr) {
		t.Fatal("transient failures must be retried")
	}
}
