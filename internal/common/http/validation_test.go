package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	commonerrors "github.com/AlibekovAA/blog-api/internal/common/errors"
)

func TestParsePageQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    PageQuery
		wantErr bool
	}{
		{name: "defaults", query: "", want: PageQuery{Page: 1, Limit: 10}},
		{name: "explicit", query: "page=3&limit=25&search=+go+", want: PageQuery{Page: 3, Limit: 25, Search: "go"}},
		{name: "max limit", query: "limit=100", want: PageQuery{Page: 1, Limit: 100}},
		{name: "zero page", query: "page=0", wantErr: true},
		{name: "negative page", query: "page=-2", wantErr: true},
		{name: "non numeric", query: "page=two", wantErr: true},
		{name: "limit too high", query: "limit=101", wantErr: true},
		{name: "zero limit", query: "limit=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageQuery(httptest.NewRequest(http.MethodGet, "/api/posts?"+tt.query, nil))
			if tt.wantErr {
				if !errors.Is(err, commonerrors.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	var gotID string
	var gotErr error
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotID, gotErr = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/0F8FAD5B-D9CB-469F-A165-70867728950E", nil))
	if gotErr != nil || gotID != "0f8fad5b-d9cb-469f-a165-70867728950e" {
		t.Errorf("expected normalized id, got %q %v", gotID, gotErr)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if !errors.Is(gotErr, commonerrors.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", gotErr)
	}
}

func TestValidateUUID_Empty(t *testing.T) {
	if err := ValidateUUID(""); !errors.Is(err, commonerrors.ErrEmptyUUID) {
		t.Errorf("expected ErrEmptyUUID, got %v", err)
	}
}
