// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	goruntime "runtime"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/chiefstaker/chiefstaker/builtin/stakepool"
	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/kv"
	"github.com/chiefstaker/chiefstaker/runtime"
	"github.com/chiefstaker/chiefstaker/xenv"
)

func verifyAction(ctx *cli.Context) error {
	exitSignal, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := initLogger(ctx); err != nil {
		return err
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
	defer mainDB.Close()

	rt, err := openLedger(exitSignal, mainDB, gene, genesisID, ctx.Int(lruCacheSizeFlag.Name), false)
	if err != nil {
		return err
	}
	addrs, err := listAccounts(accountsBucket.NewStore(mainDB))
	if err != nil {
		return err
	}

	fmt.Println(">> Verifying stake pools <<")
	failed, err := verifyPools(exitSignal, rt, addrs, os.Stdout)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d pool(s) failed audit", failed)
	}
	return nil
}

func listAccounts(store kv.Store) ([]chief.Address, error) {
	var addrs []chief.Address
	err := store.Iterate(kv.Range{}, func(p kv.Pair) bool {
		if len(p.Key) == chief.AddressLength {
			addrs = append(addrs, chief.BytesToAddress(p.Key))
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "iterate accounts")
	}
	return addrs, nil
}

// verifyPools audits each pool found among addrs and writes failing reports to w.
// It returns the number of failing pools.
func verifyPools(ctx context.Context, rt *runtime.Runtime, addrs []chief.Address, w io.Writer) (int, error) {
	var idx *stakepool.Index
	if err := rt.View(func(env *xenv.Environment) (err error) {
		idx, err = stakepool.New(env).IndexAccounts(addrs)
		return
	}); err != nil {
		return 0, err
	}
	for _, orphan := range idx.Orphans {
		fmt.Fprintf(w, "orphan position %v\n", orphan)
	}

	bar := pb.New(len(idx.Pools)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	var (
		mu     sync.Mutex
		failed int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(goruntime.NumCPU())
	for _, poolAddr := range idx.Pools {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var report *stakepool.AuditReport
			if err := rt.View(func(env *xenv.Environment) (err error) {
				report, err = stakepool.New(env).Audit(poolAddr, idx.Positions[poolAddr])
				return
			}); err != nil {
				return errors.Wrapf(err, "audit pool %v", poolAddr)
			}
			bar.Increment()
			if report.OK() {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			failed++
			fmt.Fprintf(w, "pool %v (%d positions):\n", poolAddr, report.Positions)
			for _, v := range report.Violations {
				fmt.Fprintf(w, "    %v\n", v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	bar.Finish()
	return failed, nil
}
