// file: internal/metrics/metrics_test.go
// version: 2.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestConversionLifecycle(t *testing.T) {
	startedBefore := testutil.ToFloat64(conversionsStarted)
	completedBefore := testutil.ToFloat64(conversionsCompleted)

	IncConversionStarted()
	ObserveConversionDuration(15 * time.Millisecond)
	IncConversionCompleted()

	if got := testutil.ToFloat64(conversionsStarted) - startedBefore; got != 1 {
		t.Errorf("Expected 1 started conversion, got %v", got)
	}
	if got := testutil.ToFloat64(conversionsCompleted) - completedBefore; got != 1 {
		t.Errorf("Expected 1 completed conversion, got %v", got)
	}
}

func TestIncConversionFailed(t *testing.T) {
	before := testutil.ToFloat64(conversionsFailed.WithLabelValues(ReasonValidation))

	IncConversionFailed(ReasonValidation)
	IncConversionFailed(ReasonValidation)

	got := testutil.ToFloat64(conversionsFailed.WithLabelValues(ReasonValidation)) - before
	if got != 2 {
		t.Errorf("Expected 2 validation failures, got %v", got)
	}
}

func TestIncContainerValidated(t *testing.T) {
	validBefore := testutil.ToFloat64(containersValidated.WithLabelValues(ResultValid))
	invalidBefore := testutil.ToFloat64(containersValidated.WithLabelValues(ResultInvalid))

	IncContainerValidated(true)
	IncContainerValidated(false)
	IncContainerValidated(false)

	if got := testutil.ToFloat64(containersValidated.WithLabelValues(ResultValid)) - validBefore; got != 1 {
		t.Errorf("Expected 1 valid container, got %v", got)
	}
	if got := testutil.ToFloat64(containersValidated.WithLabelValues(ResultInvalid)) - invalidBefore; got != 2 {
		t.Errorf("Expected 2 invalid containers, got %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	// Arrange
	IncConversionStarted()
	path := filepath.Join(t.TempDir(), "blist.prom")

	// Act
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	// Assert
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), "blist_conversions_started_total") {
		t.Errorf("Expected textfile to contain blist_conversions_started_total, got:\n%s", data)
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "blist.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
