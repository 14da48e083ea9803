package http

import (
	"net/http"

	"github.com/fitgoals/backend/internal/common/constants"
	"github.com/fitgoals/backend/internal/common/httpmetrics"
	"github.com/fitgoals/backend/internal/common/logger"
)

// BuildBaseHandler wraps handler with the process-wide middleware chain:
// security headers, panic recovery, trace ids, request size limits and HTTP
// metrics, outermost first.
func BuildBaseHandler(appName string, log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware

	return securityHeaders(recovery(traceID(maxRequestSize(metrics.Wrap(handler)))))
}
