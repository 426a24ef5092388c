// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/chiefstaker/chiefstaker/api/accounts"
	"github.com/chiefstaker/chiefstaker/api/middleware"
	"github.com/chiefstaker/chiefstaker/api/pools"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
	RequestLog     middleware.Options
}

// New return api router
func New(rt *runtime.Runtime, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	pools.New(rt).
		Mount(router, "/pools")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(middleware.RequestLogger(logger, opts.RequestLog))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
