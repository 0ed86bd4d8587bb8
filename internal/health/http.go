package health

import (
	"context"
	"net/http"
	"time"

	"github.com/mehmetcc/edutoy/internal/httpx"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivenessHandler answers 200 with a fixed text body for as long as the
// process is serving.
func LivenessHandler(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteText(w, http.StatusOK, text)
	}
}

// ReadinessHandler pings the store with a bounded context.
func ReadinessHandler(p Pinger, timeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			logger.Warn("readiness check failed", zap.Error(err))
			httpx.WriteText(w, http.StatusServiceUnavailable, "UNAVAILABLE")
			return
		}
		httpx.WriteText(w, http.StatusOK, "OK")
	}
}
