package server

import (
	"net/http"

	"github.com/Its-donkey/pricing-protocol/logging"
)

// requestLog returns a log context tagged with the request ID assigned by the
// HTTP logging middleware.
func (s *server) requestLog(r *http.Request) *logging.LogContext {
	return s.logger.WithRequestID(logging.RequestID(r.Context())).WithCategory("ui")
}
