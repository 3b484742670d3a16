package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestResultLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"not found", model.NotFound(model.EntityMovie, 3), "not_found"},
		{"wrapped not found", fmt.Errorf("get: %w", model.NotFound(model.EntityGenre, 1)), "not_found"},
		{"other", errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultLabel(tt.err); got != tt.want {
				t.Errorf("resultLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserveOperation(t *testing.T) {
	c := CatalogOperations.WithLabelValues("metrics_test_op", "not_found")
	before := testutil.ToFloat64(c)

	ObserveOperation("metrics_test_op", 5*time.Millisecond, model.NotFound(model.EntityDirector, 9))

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}
