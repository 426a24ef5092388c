// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/chiefstaker/chiefstaker/log"
)

// maxLoggedBody bounds the request body echoed into a log record.
const maxLoggedBody = 4 << 10

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Options selects which requests are logged. A request is logged when
// Enabled is set, when it took longer than SlowThreshold (if non zero)
// or when it failed with a 5xx status and Log5xx is set.
type Options struct {
	Enabled       *atomic.Bool
	SlowThreshold time.Duration
	Log5xx        bool
}

func (o *Options) active() bool {
	return (o.Enabled != nil && o.Enabled.Load()) || o.SlowThreshold > 0 || o.Log5xx
}

// RequestLogger returns a middleware that records API requests into logger.
func RequestLogger(logger log.Logger, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.active() {
				next.ServeHTTP(w, r)
				return
			}
			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			enabled := opts.Enabled != nil && opts.Enabled.Load()
			slow := opts.SlowThreshold > 0 && duration > opts.SlowThreshold
			failed := opts.Log5xx && sw.status >= http.StatusInternalServerError
			if !enabled && !slow && !failed {
				return
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			logger.Info("API Request",
				"durationMs", duration.Milliseconds(),
				"uri", r.URL.String(),
				"method", r.Method,
				"status", sw.status,
				"body", string(body),
			)
		})
	}
}
