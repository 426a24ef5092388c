package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/user"
	"path/filepath"
	goruntime "runtime"
	"runtime/debug"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/chiefstaker/chiefstaker/chief"
	"github.com/chiefstaker/chiefstaker/genesis"
	"github.com/chiefstaker/chiefstaker/kv"
	"github.com/chiefstaker/chiefstaker/log"
	"github.com/chiefstaker/chiefstaker/lvldb"
	"github.com/chiefstaker/chiefstaker/runtime"
)

var (
	accountsBucket = kv.Bucket("a")
	metaBucket     = kv.Bucket("m")

	genesisIDKey = []byte("genesis")
)

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity := ctx.Uint64(verbosityFlag.Name)
	if verbosity > log.LvlTrace {
		return nil, fmt.Errorf("invalid verbosity %d, want 0-%d", verbosity, log.LvlTrace)
	}
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(int(verbosity)))

	useColor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewHandlerWithLevel(os.Stderr, lvl, ctx.Bool(jsonLogsFlag.Name), useColor))
	return lvl, nil
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, chief.Bytes32, error) {
	var (
		gene *genesis.Genesis
		err  error
	)
	if path := ctx.String(genesisFlag.Name); path != "" {
		if gene, err = genesis.Load(path); err != nil {
			return nil, chief.Bytes32{}, err
		}
	} else {
		gene = genesis.NewDevnet()
	}
	id, err := gene.ID()
	if err != nil {
		return nil, chief.Bytes32{}, err
	}
	return gene, id, nil
}

func makeInstanceDir(ctx *cli.Context, genesisID chief.Bytes32) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", genesisID.Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	log.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	log.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache, err := suggestFDCache()
	if err != nil {
		return nil, err
	}
	log.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120, nil
	}
	return n, nil
}

// openLedger opens the runtime over the main db and applies the genesis on first use.
// A database built from a different genesis is refused.
func openLedger(ctx context.Context, db kv.Store, gene *genesis.Genesis, genesisID chief.Bytes32, cacheSize int, apply bool) (*runtime.Runtime, error) {
	rt, err := runtime.New(accountsBucket.NewStore(db), gene.Rent, cacheSize, runtime.SystemClock)
	if err != nil {
		return nil, err
	}

	meta := metaBucket.NewStore(db)
	stored, err := meta.Get(genesisIDKey)
	switch {
	case err == nil:
		if !bytes.Equal(stored, genesisID.Bytes()) {
			return nil, fmt.Errorf("database built from genesis %x, want %v", stored, genesisID)
		}
		return rt, nil
	case !meta.IsNotFound(err):
		return nil, errors.Wrap(err, "read genesis id")
	case !apply:
		return nil, errors.New("database not initialized")
	}

	if err := gene.Apply(ctx, rt); err != nil {
		return nil, errors.Wrap(err, "apply genesis")
	}
	if err := meta.Put(genesisIDKey, genesisID.Bytes()); err != nil {
		return nil, errors.Wrap(err, "write genesis id")
	}
	return rt, nil
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch goruntime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.chiefstaker")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.chiefstaker")
		default:
			return filepath.Join(home, ".org.chiefstaker")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func printStartupMessage(gene *genesis.Genesis, genesisID chief.Bytes32, instanceDir, apiURL, metricsURL, adminURL string) {
	orNone := func(s string) string {
		if s == "" {
			return "Disabled"
		}
		return s
	}
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fullVersion(),
		genesisID, gene.Name,
		instanceDir,
		apiURL,
		orNone(metricsURL),
		orNone(adminURL),
	)
}
