package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/utxochain/foundation/blockchain/chain"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ardanlabs/utxochain/foundation/blockchain/worker"
	"github.com/ardanlabs/utxochain/foundation/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// A negative cutoff age means the value from the genesis file is used.
	cfg := struct {
		conf.Version
		Chain struct {
			CutoffAge      int           `conf:"default:-1"`
			GenesisPath    string        `conf:"default:zblock/genesis.json"`
			BlocksPath     string        `conf:"default:zblock/blocks"`
			TxPath         string        `conf:"default:zblock/txs.json"`
			SelectStrategy string        `conf:"default:fee"`
			PollInterval   time.Duration `conf:"default:5s"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen, err := genesis.Load(cfg.Chain.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}

	cutoffAge := gen.CutoffAge
	if cfg.Chain.CutoffAge >= 0 {
		cutoffAge = cfg.Chain.CutoffAge
	}
	chain.SetCutoffAge(cutoffAge)

	// The chain packages accept a function of this signature to allow the
	// application to log. Every ingest cycle gets its own trace id.
	var traceID atomic.Value
	traceID.Store(uuid.NewString())
	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", traceID.Load())
	}

	bc, err := chain.New(chain.Config{
		Genesis:        gen.Block(),
		Verifier:       signature.Secp256k1{},
		SelectStrategy: cfg.Chain.SelectStrategy,
		EvHandler:      ev,
	})
	if err != nil {
		return fmt.Errorf("unable to construct chain: %w", err)
	}

	log.Infow("startup", "status", "chain constructed", "genesis", bc.MaxHeightBlock().Hash, "cutoff", chain.CutoffAge(), "strategy", cfg.Chain.SelectStrategy)

	// The transaction file is optional.
	txs, err := storage.ReadTxs(cfg.Chain.TxPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Infow("startup", "status", "no pending transactions", "path", cfg.Chain.TxPath)
	case err != nil:
		return fmt.Errorf("unable to read pending transactions: %w", err)
	default:
		for _, tx := range txs {
			bc.AddTransaction(tx)
		}
	}

	disk, err := storage.NewDisk(cfg.Chain.BlocksPath)
	if err != nil {
		return fmt.Errorf("unable to open block directory: %w", err)
	}

	// Each sync is logged with the trace id of its events and then a new
	// trace id is started for the next one.
	onSync := func(s worker.Status) {
		log.Infow("sync", "traceid", traceID.Load(), "last", s.Last, "accepted", s.Accepted, "rejected", s.Rejected,
			"height", s.Height, "tip", s.Tip, "retained", s.Retained, "pending", s.Pending, "candidates", s.Candidates)
		traceID.Store(uuid.NewString())
	}

	// The worker package syncs the block files already on disk and then
	// polls the block directory for new ones.
	w, err := worker.Run(worker.Config{
		Chain:     bc,
		Disk:      disk,
		Interval:  cfg.Chain.PollInterval,
		EvHandler: ev,
		OnSync:    onSync,
	})
	if err != nil {
		return fmt.Errorf("unable to start worker: %w", err)
	}
	defer w.Shutdown()

	log.Infow("startup", "status", "polling block directory", "path", cfg.Chain.BlocksPath, "interval", cfg.Chain.PollInterval)

	// =========================================================================
	// Shutdown

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	sig := <-shutdown
	log.Infow("shutdown", "status", "shutdown started", "signal", sig)
	defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

	return nil
}
