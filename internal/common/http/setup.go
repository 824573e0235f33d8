package http

import (
	"net/http"

	"github.com/AlibekovAA/credential-service/internal/common/constants"
	"github.com/AlibekovAA/credential-service/internal/common/httpmetrics"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

// BuildBaseHandler wraps handler with the standard middleware chain. The
// outermost layer runs first.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	csp := ContentSecurityPolicyMiddleware("")

	return SecurityHeadersMiddleware(csp(TraceIDMiddleware(recovery(maxRequestSize(metrics.Wrap(handler))))))
}
