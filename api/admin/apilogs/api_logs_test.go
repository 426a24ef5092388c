// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		body     string
		status   int
		start    bool
		expected bool
	}{
		{"enable", http.MethodPost, `{"enabled":true}`, http.StatusOK, false, true},
		{"disable", http.MethodPost, `{"enabled":false}`, http.StatusOK, true, false},
		{"get", http.MethodGet, "", http.StatusOK, true, true},
		{"malformed", http.MethodPost, `{"enabled":"yes"}`, http.StatusBadRequest, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			router := mux.NewRouter()
			New(&enabled).Mount(router, "/admin/apilogs")

			req, err := http.NewRequest(tt.method, "/admin/apilogs", strings.NewReader(tt.body))
			require.NoError(t, err)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.expected, enabled.Load())
			if tt.status != http.StatusOK {
				return
			}
			var status LogStatus
			require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&status))
			assert.Equal(t, tt.expected, status.Enabled)
		})
	}
}
