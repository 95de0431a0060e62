package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/clinica-crm/internal/entity"
)

func TestSubmitTransitionSendsPatchWithToken(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, func() string { return "tok-123" })
	err := c.SubmitTransition(context.Background(), 42, entity.StatusTriage, "")
	assert.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/patients/42/status", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "triage", gotBody["status"])
	_, hasOutcome := gotBody["attendance_status"]
	assert.False(t, hasOutcome)
}

func TestSubmitTransitionCarriesOutcome(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.SubmitTransition(context.Background(), 7, entity.StatusFinished, entity.AttendanceNaoCompareceu)
	assert.NoError(t, err)
	assert.Equal(t, "finished", gotBody["status"])
	assert.Equal(t, "nao_compareceu", gotBody["attendance_status"])
}

func TestSubmitTransitionMissingTokenGoesUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, func() string { return "" })
	assert.NoError(t, c.SubmitTransition(context.Background(), 1, entity.StatusTriage, ""))
	assert.Empty(t, gotAuth)
}

// The backend may answer 2xx with an empty or non-JSON body; both are success.
func TestSubmitTransitionToleratesOddSuccessBodies(t *testing.T) {
	cases := []struct {
		name string
		code int
		body string
	}{
		{"empty 204", http.StatusNoContent, ""},
		{"empty object", http.StatusOK, "{}"},
		{"non-json", http.StatusOK, "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, nil)
			assert.NoError(t, c.SubmitTransition(context.Background(), 5, entity.StatusTriage, ""))
		})
	}
}

func TestSubmitTransitionSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "clinic suspended"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.SubmitTransition(context.Background(), 5, entity.StatusTriage, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "clinic suspended")
}

func TestSubmitTransitionGenericErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.SubmitTransition(context.Background(), 5, entity.StatusTriage, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSubmitTransitionNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(srv.URL, nil)
	err := c.SubmitTransition(context.Background(), 5, entity.StatusTriage, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not reach the server")
}
