package api

import (
	"net/http"

	"github.com/phrazzld/lingodrift-api/internal/api/shared"
)

// WelcomeMessage is returned by the root endpoint.
const WelcomeMessage = "Willkommen bei LingoDrift v2 API 🇩🇪"

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}
