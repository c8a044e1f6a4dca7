// Package shell is the interactive console front end: it renders the
// board, reads moves, and exposes the engine's suggestion and autoplay
// features.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/kvnchn/twenty48/config"
	"github.com/kvnchn/twenty48/expectimax"
	"github.com/kvnchn/twenty48/game"
	"github.com/kvnchn/twenty48/leaderboard"
	"github.com/kvnchn/twenty48/move"
)

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	game   *game.Game
	solver *expectimax.Solver
	store  *leaderboard.Store
	depth  int
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mtwenty48>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "twenty48_readline.tmp"),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}

	store, err := leaderboard.Open(cfg.LeaderboardPath)
	if err != nil {
		log.Err(err).Msg("opening-leaderboard")
		store = nil
	}
	return &ShellController{
		l:      l,
		out:    l.Stderr(),
		game:   game.NewGame(),
		solver: expectimax.NewSolver(cfg.Weights),
		store:  store,
		depth:  cfg.Depth,
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showGame() {
	sc.showMessage(fmt.Sprintf("%s\nscore: %d", sc.game.Board(), sc.game.Score()))
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "w/a/s/d (or up/left/down/right) - slide tiles\n")
	io.WriteString(w, "hint - ask the engine for the best move\n")
	io.WriteString(w, "auto - let the engine play the game out\n")
	io.WriteString(w, "new - start a new game\n")
	io.WriteString(w, "submit <name> - record the finished score\n")
	io.WriteString(w, "best - show the top recorded scores\n")
	io.WriteString(w, "exit - quit\n")
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	if sc.store != nil {
		defer sc.store.Close()
	}
	sc.showGame()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			sig <- syscall.SIGINT
			break
		}
		if err := sc.dispatch(line); err != nil {
			sc.showMessage("error: " + err.Error())
		}
	}
	log.Debug().Msg("exiting readline loop")
}

func (sc *ShellController) dispatch(line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "help":
		usage(sc.out)
	case "new":
		sc.game = game.NewGame()
		sc.showGame()
	case "hint":
		d, err := sc.solver.BestMove(context.Background(), sc.game.Board(), sc.depth)
		if err == expectimax.ErrNoLegalMove {
			sc.showMessage("no moves left; game over")
			return nil
		}
		if err != nil {
			return err
		}
		sc.showMessage(fmt.Sprintf("engine suggests: %v", d))
	case "auto":
		return sc.autoPlay()
	case "submit":
		if len(fields) < 2 {
			return fmt.Errorf("usage: submit <name>")
		}
		return sc.submit(fields[1])
	case "best":
		return sc.showTop()
	default:
		d, err := move.ParseDirection(fields[0])
		if err != nil {
			usage(sc.out)
			return nil
		}
		if !sc.game.Move(d) {
			sc.showMessage("that move doesn't change anything")
			return nil
		}
		sc.showGame()
		if !sc.game.Playing() {
			sc.showMessage("game over! record it with: submit <name>")
		}
	}
	return nil
}

func (sc *ShellController) autoPlay() error {
	if !sc.game.Playing() {
		sc.showMessage("game is already over; start another with: new")
		return nil
	}
	for {
		d, err := sc.solver.BestMove(context.Background(), sc.game.Board(), sc.depth)
		if err == expectimax.ErrNoLegalMove {
			break
		}
		if err != nil {
			return err
		}
		sc.game.Move(d)
	}
	sc.showGame()
	sc.showMessage(fmt.Sprintf("game over after %d moves, max tile %d",
		sc.game.Moves(), sc.game.MaxTile()))
	return nil
}

func (sc *ShellController) submit(name string) error {
	if sc.store == nil {
		return fmt.Errorf("leaderboard unavailable")
	}
	if err := sc.store.Submit(name, sc.game.Score(), sc.game.MaxTile()); err != nil {
		return err
	}
	sc.showMessage(fmt.Sprintf("recorded %d for %s", sc.game.Score(), name))
	return nil
}

func (sc *ShellController) showTop() error {
	if sc.store == nil {
		return fmt.Errorf("leaderboard unavailable")
	}
	entries, err := sc.store.Top(10)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		sc.showMessage("no scores recorded yet")
		return nil
	}
	for i, e := range entries {
		sc.showMessage(fmt.Sprintf("%2d. %-16s %8d (max tile %d)",
			i+1, e.Name, e.Score, e.MaxTile))
	}
	return nil
}
