// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/chiefstaker/chiefstaker/chief"
)

const (
	headerGenesisID = "x-genesis-id"
	maxBodySize     = 200 * 1024
)

// StartAPIServer serves handler on addr until the returned func is called.
func StartAPIServer(addr string, handler http.Handler, genesisID chief.Bytes32, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{
		Handler:           wrapAPIHandler(handler, genesisID, timeout),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes sync.WaitGroup
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func wrapAPIHandler(handler http.Handler, genesisID chief.Bytes32, timeout time.Duration) http.Handler {
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timeout")
	}
	handler = handleXGenesisID(handler, genesisID)
	return requestBodyLimit(handler)
}

// handleXGenesisID rejects requests addressed to another ledger and tags
// responses with the genesis id.
func handleXGenesisID(h http.Handler, genesisID chief.Bytes32) http.Handler {
	expected := genesisID.String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actual := r.Header.Get(headerGenesisID)
		if actual == "" {
			actual = r.URL.Query().Get(headerGenesisID)
		}
		w.Header().Set(headerGenesisID, expected)
		if actual != "" && actual != expected {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		h.ServeHTTP(w, r)
	})
}
