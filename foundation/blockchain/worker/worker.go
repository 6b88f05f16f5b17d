// Package worker implements the ingest workflow that feeds the block files
// written to disk into the chain.
package worker

import (
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/chain"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database/storage"
)

// Status describes the chain after a sync.
type Status struct {
	Last       uint64
	Accepted   int
	Rejected   int
	Height     uint64
	Tip        database.Hash
	Retained   int
	Pending    int
	Candidates int
}

// Config represents the configuration required to start the worker.
type Config struct {
	Chain     *chain.BlockChain
	Disk      *storage.Disk
	Interval  time.Duration
	EvHandler chain.EventHandler
	OnSync    func(Status)
}

// =============================================================================

// Worker manages the ingest workflow for the chain.
type Worker struct {
	bc        *chain.BlockChain
	disk      *storage.Disk
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	last      uint64
	evHandler chain.EventHandler
	onSync    func(Status)
}

// Run creates a worker, syncs the block files already on disk, and starts
// the background process that picks up new ones.
func Run(cfg Config) (*Worker, error) {
	if cfg.Chain == nil || cfg.Disk == nil {
		return nil, errors.New("chain and disk are required")
	}

	if cfg.Interval <= 0 {
		return nil, errors.New("interval must be positive")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	onSync := cfg.OnSync
	if onSync == nil {
		onSync = func(Status) {}
	}

	w := Worker{
		bc:        cfg.Chain,
		disk:      cfg.Disk,
		ticker:    time.NewTicker(cfg.Interval),
		shut:      make(chan struct{}),
		evHandler: ev,
		onSync:    onSync,
	}

	// Update this node before starting the support G.
	w.Sync()

	w.wg.Add(1)

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.ingestOperations()
	}()

	<-hasStarted

	return &w, nil
}

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// Sync reads every block file written since the previous sync. A file that
// can't be read stops the sync and is retried on the next one.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started: last[%d]", w.last)
	defer w.evHandler("worker: sync: completed")

	var status Status

	iter := w.disk.ForEachFrom(w.last)
	for !iter.Done() {
		blockData, ok, err := iter.Next()
		if err != nil {
			w.evHandler("worker: sync: block[%d]: ERROR: %s", iter.Current()+1, err)
			break
		}
		if !ok {
			continue
		}

		block, err := storage.ToDatabaseBlock(blockData)
		if err != nil {
			w.evHandler("worker: sync: block[%d]: ERROR: %s", blockData.Number, err)
			status.Rejected++
			continue
		}

		if !w.bc.AddBlock(block) {
			status.Rejected++
			continue
		}
		status.Accepted++
	}
	w.last = iter.Current()

	status.Last = w.last
	status.Height = w.bc.MaxHeight()
	status.Tip = w.bc.MaxHeightBlock().Hash
	status.Retained = w.bc.Retained()
	status.Pending = w.bc.PendingCount()
	status.Candidates = len(w.bc.Candidates())

	w.onSync(status)
}

// =============================================================================

// ingestOperations handles syncing new block files on an interval.
func (w *Worker) ingestOperations() {
	w.evHandler("worker: ingestOperations: G started")
	defer w.evHandler("worker: ingestOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.Sync()
			}
		case <-w.shut:
			w.evHandler("worker: ingestOperations: received shut signal")
			return
		}
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
