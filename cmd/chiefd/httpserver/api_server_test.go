// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/chief"
)

func echoHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	w.Write(body)
}

func TestHandleXGenesisID(t *testing.T) {
	genesisID := chief.Blake2b([]byte("genesis"))
	h := wrapAPIHandler(http.HandlerFunc(echoHandler), genesisID, 0)

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"no header", "", "", http.StatusOK},
		{"matching header", genesisID.String(), "", http.StatusOK},
		{"matching query", "", genesisID.String(), http.StatusOK},
		{"mismatch", chief.Bytes32{}.String(), "", http.StatusForbidden},
		{"mismatch query", "", "0x01", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/accounts"
			if tt.query != "" {
				target += "?x-genesis-id=" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("hello"))
			if tt.header != "" {
				req.Header.Set(headerGenesisID, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, genesisID.String(), rec.Header().Get(headerGenesisID))
			if tt.status == http.StatusOK {
				assert.Equal(t, "hello", rec.Body.String())
			}
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	h := wrapAPIHandler(http.HandlerFunc(echoHandler), chief.Bytes32{}, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", maxBodySize+1)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", maxBodySize)))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxBodySize, rec.Body.Len())
}

func TestStartAPIServer(t *testing.T) {
	url, closeFunc, err := StartAPIServer("localhost:0", http.HandlerFunc(echoHandler), chief.Bytes32{}, 0)
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Post(url, "text/plain", strings.NewReader("ping"))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(body))
}

func TestStartMetricsServerNoop(t *testing.T) {
	_, _, err := StartMetricsServer("localhost:0")
	assert.Error(t, err)
}
