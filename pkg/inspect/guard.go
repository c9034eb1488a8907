package inspect

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/muesli/termenv"
)

// InterruptExitCode is the exit status after an interrupt during a session
const InterruptExitCode = 130

// CursorGuard restores the terminal cursor when the process is interrupted
// while a prompt has it hidden. It is only active between Install and Release.
type CursorGuard struct {
	out  io.Writer
	exit func(int)

	signals chan os.Signal
	done    chan struct{}
	release sync.Once
}

// NewCursorGuard creates a guard that writes to the terminal on out
func NewCursorGuard(out io.Writer) *CursorGuard {
	return &CursorGuard{out: out, exit: os.Exit}
}

// Install starts listening for SIGINT and SIGTERM
func (g *CursorGuard) Install() {
	g.signals = make(chan os.Signal, 1)
	g.done = make(chan struct{})
	signal.Notify(g.signals, os.Interrupt, syscall.SIGTERM)
	go g.wait(g.signals, g.done)
}

func (g *CursorGuard) wait(signals <-chan os.Signal, done <-chan struct{}) {
	select {
	case <-signals:
		termenv.NewOutput(g.out).ShowCursor()
		g.exit(InterruptExitCode)
	case <-done:
	}
}

// Release stops listening. It is safe to call more than once.
func (g *CursorGuard) Release() {
	g.release.Do(func() {
		if g.signals == nil {
			return
		}
		signal.Stop(g.signals)
		close(g.done)
	})
}
