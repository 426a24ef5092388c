// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/chiefstaker/chiefstaker/api"
	"github.com/chiefstaker/chiefstaker/api/admin/health"
	"github.com/chiefstaker/chiefstaker/api/middleware"
	"github.com/chiefstaker/chiefstaker/cmd/chiefd/httpserver"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "chiefd")

	commonFlags = []cli.Flag{
		dataDirFlag,
		genesisFlag,
		cacheFlag,
		lruCacheSizeFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "chiefd",
		Usage:   "Stake pool ledger node",
		Flags: append([]cli.Flag{
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		}, commonFlags...),
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "verify",
				Usage:  "audit every stake pool against its positions",
				Flags:  commonFlags,
				Action: verifyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lvl, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, genesisID, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, genesisID)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	rt, err := openLedger(exitSignal, mainDB, gene, genesisID, ctx.Int(lruCacheSizeFlag.Name), true)
	if err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := api.New(rt, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		RequestLog: middleware.Options{
			Enabled:       apiLogs,
			SlowThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
			Log5xx:        ctx.Bool(apiLog5xxErrorsFlag.Name),
		},
	})
	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		genesisID,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(
			ctx.String(adminAddrFlag.Name),
			lvl,
			apiLogs,
			health.New(rt, genesisID),
		)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	printStartupMessage(gene, genesisID, instanceDir, apiURL, metricsURL, adminURL)

	<-exitSignal.Done()
	logger.Info("exit signal received, shutting down")
	return nil
}
