// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/genesis"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/metrics"
	"github.com/chiefstaker/chiefstaker/runtime"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newDevnetRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gen := genesis.NewDevnet()
	rt, err := runtime.New(db, gen.Rent, 64, runtime.SystemClock)
	require.NoError(t, err)
	require.NoError(t, gen.Apply(context.Background(), rt))
	return rt
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "pools", routeLabel("POST /pools"))
	assert.Equal(t, "pools_mint_sync", routeLabel("POST /pools/{mint}/sync"))
	assert.Equal(t, "pools_mint_stakes_owner_unstake_request", routeLabel("DELETE /pools/{mint}/stakes/{owner}/unstake-request"))
	assert.Equal(t, "accounts_address", routeLabel("GET /accounts/{address}"))
}

func TestMetricsMiddleware(t *testing.T) {
	ts := httptest.NewServer(New(newDevnetRuntime(t), Options{EnableMetrics: true}))
	defer ts.Close()
	metricsServer := httptest.NewServer(metrics.HTTPHandler())
	defer metricsServer.Close()

	_, code := httpGet(t, ts.URL+"/pools/"+genesis.DevMint.String())
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/pools/"+chief.BytesToAddress([]byte("missing")).String())
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/accounts/"+genesis.DevAccounts()[0].String())
	assert.Equal(t, http.StatusOK, code)

	body, code := httpGet(t, metricsServer.URL)
	require.Equal(t, http.StatusOK, code)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	family, ok := families["chiefstaker_api_request_count"]
	require.True(t, ok)

	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		counts[labels["method"]+" "+labels["name"]+" "+labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), counts["GET pools_mint 200"])
	assert.Equal(t, float64(1), counts["GET pools_mint 404"])
	assert.Equal(t, float64(1), counts["GET accounts_address 200"])

	_, ok = families["chiefstaker_runtime_execute_duration_ms"]
	assert.True(t, ok, "genesis execution is observed")
}
