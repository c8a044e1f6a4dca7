// Package automatic plays unattended games with the expectimax player,
// mostly for evaluating heuristic weight configurations. Games run across
// worker goroutines; each worker owns its solver, so no search state is
// shared.
package automatic

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kvnchn/twenty48/equity"
	"github.com/kvnchn/twenty48/expectimax"
	"github.com/kvnchn/twenty48/game"
)

// GameRunner plays single games to completion with one solver.
type GameRunner struct {
	solver  *expectimax.Solver
	depth   int
	logchan chan<- string
}

// NewGameRunner instantiates a runner with its own solver.
func NewGameRunner(w equity.Weights, depth int, logchan chan<- string) *GameRunner {
	return &GameRunner{
		solver:  expectimax.NewSolver(w),
		depth:   depth,
		logchan: logchan,
	}
}

// GameResult summarizes one finished game.
type GameResult struct {
	Score   uint32
	MaxTile uint32
	Moves   int
}

// PlayFullGame plays a fresh game until no move remains.
func (r *GameRunner) PlayFullGame(ctx context.Context, gameID int) (GameResult, error) {
	g := game.NewGame()
	for {
		d, err := r.solver.BestMove(ctx, g.Board(), r.depth)
		if err == expectimax.ErrNoLegalMove {
			break
		}
		if err != nil {
			return GameResult{}, err
		}
		if !g.Move(d) {
			// BestMove never returns a no-op direction.
			return GameResult{}, fmt.Errorf("solver chose no-op move %v", d)
		}
	}
	res := GameResult{Score: g.Score(), MaxTile: g.MaxTile(), Moves: g.Moves()}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%d,%d,%d,%d\n", gameID, res.Score, res.MaxTile, res.Moves)
	}
	return res, nil
}

// BatchConfig configures a batch of self-play games.
type BatchConfig struct {
	Games   int
	Threads int
	Depth   int
	Weights equity.Weights
}

// StartBatchGames plays cfg.Games full games across cfg.Threads workers
// and collects their results. If logWriter is non-nil, one CSV line per
// game (game,score,maxtile,moves) is written to it as games finish.
func StartBatchGames(ctx context.Context, cfg BatchConfig, logWriter io.Writer) (*BatchResult, error) {
	if cfg.Games <= 0 {
		return &BatchResult{}, nil
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = 1
	}
	log.Debug().Int("games", cfg.Games).Int("threads", threads).
		Int("depth", cfg.Depth).Msg("starting-batch")

	jobs := make(chan int, threads)
	results := make(chan GameResult, threads)
	logChan := make(chan string, 100)

	writer := errgroup.Group{}
	if logWriter != nil {
		writer.Go(func() error {
			// The workers block on logChan sends once its buffer fills, so
			// this goroutine must drain the channel until it closes even
			// after a write fails. Later lines are discarded and the first
			// error is returned.
			var werr error
			if _, err := io.WriteString(logWriter, "game,score,maxtile,moves\n"); err != nil {
				werr = err
			}
			for msg := range logChan {
				if werr != nil {
					continue
				}
				if _, err := io.WriteString(logWriter, msg); err != nil {
					werr = err
				}
			}
			return werr
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			var lc chan<- string
			if logWriter != nil {
				lc = logChan
			}
			r := NewGameRunner(cfg.Weights, cfg.Depth, lc)
			for id := range jobs {
				res, err := r.PlayFullGame(gctx, id)
				if err != nil {
					return err
				}
				results <- res
			}
			return nil
		})
	}

	go func() {
	feedLoop:
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got stop signal, not queueing more games")
				break feedLoop
			}
		}
		close(jobs)
	}()

	batch := &BatchResult{}
	collector := errgroup.Group{}
	collector.Go(func() error {
		for res := range results {
			batch.add(res)
		}
		return nil
	})

	err := g.Wait()
	close(results)
	close(logChan)
	if werr := writer.Wait(); werr != nil && err == nil {
		err = werr
	}
	if cerr := collector.Wait(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("games", len(batch.Scores)).
		Float64("mean-score", batch.MeanScore()).
		Float64("max-tile-mean", batch.MeanMaxTile()).
		Msg("batch-finished")
	return batch, nil
}
