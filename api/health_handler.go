package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dermalens/backend/rembg"
	"github.com/dermalens/backend/utils"
)

// HealthHandler reports liveness plus the background-removal service state.
// Probing also resets the breaker once the service is back.
func HealthHandler(bg *rembg.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rembgUp := false
		if bg != nil {
			rembgUp = bg.Probe(ctx)
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"rembg":  rembgUp,
		})
	}
}
