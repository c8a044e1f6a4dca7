package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kvnchn/twenty48/automatic"
	"github.com/kvnchn/twenty48/config"
	"github.com/kvnchn/twenty48/movegen"
	"github.com/kvnchn/twenty48/shell"
)

var (
	profilePath = flag.String("profilepath", "", "path for profile")
	configPath  = flag.String("config", "", "path to a YAML config file")
	autoplay    = flag.Bool("autoplay", false, "play a batch of games unattended and print stats")
	gameLog     = flag.String("gamelog", "", "CSV file for per-game autoplay results")
	debug       = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}

	// Pay the table construction cost up front rather than on the first
	// move.
	movegen.Precompute()

	if *autoplay {
		runBatch(cfg)
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	sc := shell.NewShellController(cfg)
	go sc.Loop(sig)
	<-sig
	log.Info().Msg("bye")
}

func runBatch(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	var logWriter *os.File
	if *gameLog != "" {
		var err error
		logWriter, err = os.Create(*gameLog)
		if err != nil {
			log.Fatal().Err(err).Msg("creating-game-log")
		}
		defer logWriter.Close()
	}

	batchCfg := automatic.BatchConfig{
		Games:   cfg.Games,
		Threads: cfg.Threads,
		Depth:   cfg.Depth,
		Weights: cfg.Weights,
	}
	var res *automatic.BatchResult
	var err error
	if logWriter != nil {
		res, err = automatic.StartBatchGames(ctx, batchCfg, logWriter)
	} else {
		res, err = automatic.StartBatchGames(ctx, batchCfg, nil)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("batch-failed")
	}
	if err := res.Summary(os.Stdout); err != nil {
		log.Err(err).Msg("printing-summary")
	}
}
