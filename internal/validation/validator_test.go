package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name    string  `json:"name" validate:"required,notblank,max=5"`
	Rating  int     `json:"rating" validate:"min=1,max=10"`
	Note    *string `json:"note" validate:"omitempty,max=3"`
	Release string  `json:"release_date" validate:"required,datetime=2006-01-02,notfuture"`
}

func fixedNow(t *testing.T, s string) {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

func TestGetSingleton(t *testing.T) {
	if Get() != Get() {
		t.Error("Get() should return the same instance")
	}
}

func TestStruct(t *testing.T) {
	fixedNow(t, "2024-05-10T12:00:00Z")
	long := "toolong"

	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{"valid", sample{Name: "ok", Rating: 7, Release: "2024-05-10"}, nil},
		{"blank name", sample{Name: "   ", Rating: 7, Release: "2020-01-01"}, []string{"name"}},
		{"name too long", sample{Name: "abcdef", Rating: 7, Release: "2020-01-01"}, []string{"name"}},
		{"rating low", sample{Name: "a", Rating: 0, Release: "2020-01-01"}, []string{"rating"}},
		{"rating high", sample{Name: "a", Rating: 11, Release: "2020-01-01"}, []string{"rating"}},
		{"note too long", sample{Name: "a", Rating: 1, Note: &long, Release: "2020-01-01"}, []string{"note"}},
		{"future date", sample{Name: "a", Rating: 1, Release: "2024-05-11"}, []string{"release_date"}},
		{"bad date", sample{Name: "a", Rating: 1, Release: "10/05/2024"}, []string{"release_date"}},
		{"missing", sample{}, []string{"name", "rating", "release_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("Struct() = %v, want *Error", err)
			}
			got := map[string]bool{}
			for _, f := range verr.Fields {
				got[f.Field] = true
			}
			for _, f := range tt.fields {
				if !got[f] {
					t.Errorf("field %q not reported; got %+v", f, verr.Fields)
				}
			}
		})
	}
}

func TestNotFutureTime(t *testing.T) {
	fixedNow(t, "2024-05-10T23:59:00Z")
	type withTime struct {
		At time.Time `json:"at" validate:"notfuture"`
	}
	if err := Struct(withTime{At: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)}); err != nil {
		t.Errorf("today rejected: %v", err)
	}
	if err := Struct(withTime{At: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)}); err == nil {
		t.Error("tomorrow accepted")
	}
	if err := Struct(withTime{}); err != nil {
		t.Errorf("zero time rejected: %v", err)
	}
}

func TestMessages(t *testing.T) {
	err := Struct(sample{Name: "abcdef", Rating: 12, Release: "2000-01-01"})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"name must be at most 5 characters", "rating must be at most 10"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestEchoAdapter(t *testing.T) {
	if err := (Echo{}).Validate(&sample{}); err == nil {
		t.Error("Echo.Validate should surface validation errors")
	}
}
