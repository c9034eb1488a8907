// Package inspect implements the interactive package inspector.
package inspect

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/archlinux/arch-repro-status/pkg/core"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// Prompter asks the user to pick from a list. ok is false when the user
// cancelled the prompt.
type Prompter interface {
	Select(ctx context.Context, prompt string, items []string, def int) (index int, ok bool, err error)
	Confirm(ctx context.Context, prompt string) error
}

// Pager displays a file and returns once the viewer exits
type Pager interface {
	Show(ctx context.Context, path string) error
}

// LogStore returns the on-disk path and content of a build artifact
type LogStore interface {
	Ensure(ctx context.Context, buildID int64, kind rebuilderd.LogKind) (string, []byte, error)
}

const (
	packagePrompt   = "Select package to inspect"
	operationPrompt = "Select operation"
	continuePrompt  = "Press Enter to continue"
)

type operation int

const (
	opBuildLog operation = iota
	opDiffoscope
	opInfo
)

func (o operation) String() string {
	switch o {
	case opBuildLog:
		return "show build log"
	case opDiffoscope:
		return "show diffoscope"
	default:
		return "show package info"
	}
}

// operations lists what can be done with pkg, in menu order
func operations(pkg core.Package) []operation {
	ops := []operation{opBuildLog}
	if pkg.HasDiffoscope {
		ops = append(ops, opDiffoscope)
	}
	return append(ops, opInfo)
}

type state int

const (
	stateSelectPackage state = iota
	stateSelectOperation
	stateShowInfo
	stateShowLog
	stateDone
)

// Session drives the inspector loop
type Session struct {
	prompter Prompter
	pager    Pager
	logs     LogStore
	out      io.Writer
	filter   *rebuilderd.Status
	logger   zerolog.Logger
}

// Option configures a Session
type Option func(*Session)

// WithOutput sets where package info is printed (stdout by default)
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithFilter restricts the package menu to one status
func WithFilter(status *rebuilderd.Status) Option {
	return func(s *Session) {
		s.filter = status
	}
}

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates an inspector session
func NewSession(prompter Prompter, pager Pager, logs LogStore, opts ...Option) *Session {
	s := &Session{
		prompter: prompter,
		pager:    pager,
		logs:     logs,
		out:      os.Stdout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the package menu starting at index start until the user cancels
// it. Every action returns to the package menu with the same package
// selected. The first failure ends the session.
func (s *Session) Run(ctx context.Context, pkgs []core.Package, start int) error {
	if s.filter != nil {
		pkgs = core.Filter(pkgs, s.filter, nil)
	}
	if len(pkgs) == 0 {
		s.logger.Warn().Msg("No packages found.")
		return nil
	}

	items := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		items[i] = pkg.String()
	}

	index := clamp(start, len(pkgs))
	var ops []operation
	var kind rebuilderd.LogKind

	for st := stateSelectPackage; st != stateDone; {
		switch st {
		case stateSelectPackage:
			i, ok, err := s.prompter.Select(ctx, packagePrompt, items, index)
			if err != nil {
				return core.Wrap(core.OpInspect, "", err)
			}
			if !ok {
				st = stateDone
				continue
			}
			index = clamp(i, len(pkgs))
			st = stateSelectOperation

		case stateSelectOperation:
			ops = operations(pkgs[index])
			labels := make([]string, len(ops))
			for i, op := range ops {
				labels[i] = op.String()
			}
			i, ok, err := s.prompter.Select(ctx, operationPrompt, labels, 0)
			if err != nil {
				return core.Wrap(core.OpInspect, pkgs[index].Name(), err)
			}
			if !ok {
				st = stateSelectPackage
				continue
			}
			switch ops[clamp(i, len(ops))] {
			case opBuildLog:
				kind, st = rebuilderd.LogBuild, stateShowLog
			case opDiffoscope:
				kind, st = rebuilderd.LogDiffoscope, stateShowLog
			default:
				st = stateShowInfo
			}

		case stateShowInfo:
			if err := WriteInfo(s.out, pkgs[index].Data); err != nil {
				return core.Wrap(core.OpInspect, pkgs[index].Name(), err)
			}
			if err := s.prompter.Confirm(ctx, continuePrompt); err != nil {
				return core.Wrap(core.OpInspect, pkgs[index].Name(), err)
			}
			st = stateSelectPackage

		case stateShowLog:
			if err := s.showLog(ctx, pkgs[index], kind); err != nil {
				return err
			}
			st = stateSelectPackage
		}
	}
	return nil
}

func (s *Session) showLog(ctx context.Context, pkg core.Package, kind rebuilderd.LogKind) error {
	if pkg.BuildID == 0 {
		return core.Wrap(core.OpInspect, pkg.Name(), core.ErrNoBuild)
	}

	path, _, err := s.logs.Ensure(ctx, pkg.BuildID, kind)
	if err != nil {
		return err
	}

	s.logger.Debug().Str("path", path).Msg("opening pager")
	if err := s.pager.Show(ctx, path); err != nil {
		return core.Wrap(core.OpPager, pkg.Name(), err)
	}
	return nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
