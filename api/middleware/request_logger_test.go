// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/log"
)

type mockLogger struct {
	infos [][]any
	warns [][]any
}

func (m *mockLogger) Trace(string, ...any)      {}
func (m *mockLogger) Debug(string, ...any)      {}
func (m *mockLogger) Error(string, ...any)      {}
func (m *mockLogger) New(...any) log.Logger     { return m }
func (m *mockLogger) Info(_ string, ctx ...any) { m.infos = append(m.infos, ctx) }
func (m *mockLogger) Warn(_ string, ctx ...any) { m.warns = append(m.warns, ctx) }

func field(ctx []any, key string) any {
	for i := 0; i+1 < len(ctx); i += 2 {
		if ctx[i] == key {
			return ctx[i+1]
		}
	}
	return nil
}

func TestRequestLogger(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("OK")) }
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(15 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}
	fail := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) }
	bad := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadRequest) }

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		log5xx    bool
		status    int
		shouldLog bool
	}{
		{"enabled", ok, true, 0, false, http.StatusOK, true},
		{"disabled", ok, false, 0, false, http.StatusOK, false},
		{"slow request", slow, false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast request under threshold", ok, false, time.Second, false, http.StatusOK, false},
		{"5xx logged", fail, false, 0, true, http.StatusInternalServerError, true},
		{"5xx not logged", fail, false, 0, false, http.StatusInternalServerError, false},
		{"4xx not logged", bad, false, 0, true, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLogger(logger, Options{
				Enabled:       &enabled,
				SlowThreshold: tt.threshold,
				Log5xx:        tt.log5xx,
			})(tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/pools", strings.NewReader(`{"mint":"0x01"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if !tt.shouldLog {
				assert.Empty(t, logger.infos)
				return
			}
			require.Len(t, logger.infos, 1)
			ctx := logger.infos[0]
			assert.Equal(t, "/pools", field(ctx, "uri"))
			assert.Equal(t, http.MethodPost, field(ctx, "method"))
			assert.Equal(t, tt.status, field(ctx, "status"))
			assert.Equal(t, `{"mint":"0x01"}`, field(ctx, "body"))
		})
	}
}

func TestRequestLoggerKeepsBody(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)

	var seen string
	handler := RequestLogger(&mockLogger{}, Options{Enabled: &enabled})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("body")))
	assert.Equal(t, "body", seen)
}

func TestRequestLoggerToggle(t *testing.T) {
	logger := &mockLogger{}
	var enabled atomic.Bool
	handler := RequestLogger(logger, Options{Enabled: &enabled})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, logger.infos)

	enabled.Store(true)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, logger.infos, 1)
}
