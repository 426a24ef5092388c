// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/api/admin/health"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/rent"
	"github.com/chiefstaker/chiefstaker/runtime"
)

func TestAdminRoutes(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	rt, err := runtime.New(db, rent.Default(), 16, runtime.SystemClock)
	require.NoError(t, err)

	var lvl slog.LevelVar
	var apiLogs atomic.Bool
	ts := httptest.NewServer(New(&lvl, &apiLogs, health.New(rt, chief.Bytes32{1})))
	defer ts.Close()

	call := func(method, path, body string) (int, string) {
		req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return res.StatusCode, string(data)
	}

	code, body := call(http.MethodGet, "/admin/loglevel", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"currentLevel":"INFO"}`, body)

	code, _ = call(http.MethodPost, "/admin/loglevel", `{"level":"trace"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, slog.Level(-8), lvl.Level())

	code, _ = call(http.MethodPost, "/admin/apilogs", `{"enabled":true}`)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, apiLogs.Load())

	code, _ = call(http.MethodGet, "/admin/health", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(http.MethodGet, "/loglevel", "")
	assert.Equal(t, http.StatusNotFound, code)
}
