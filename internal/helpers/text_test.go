package helpers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "sữa tươi", max: 3, want: "sữa"},
		{in: "sữa", max: 10, want: "sữa"},
		{in: "abc", max: 0, want: "abc"},
		{in: "", max: 2, want: ""},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.max); got != tt.want {
			t.Fatalf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestCheckStatus(t *testing.T) {
	t.Parallel()
	ok := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}
	if err := CheckStatus("svc", ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(" missing \n"))}
	err := CheckStatus("svc", bad)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound || se.Body != "missing" || se.Service != "svc" {
		t.Fatalf("unexpected status error %+v", se)
	}
}
