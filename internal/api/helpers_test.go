package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lingodrift-api/internal/api/shared"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/stretchr/testify/require"
)

var testUser = &domain.User{
	ID:           3,
	Email:        "anna@example.de",
	AuthProvider: domain.ProviderEmail,
	IsActive:     true,
}

// serve routes a request through a chi router so URL params resolve. A
// non-nil user is placed in the context as the auth middleware would.
func serve(
	t *testing.T,
	method, pattern, target string,
	handler http.HandlerFunc,
	body any,
	user *domain.User,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	if user != nil {
		r = r.WithContext(shared.WithUser(r.Context(), user))
	}

	router := chi.NewRouter()
	router.Method(method, pattern, handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
