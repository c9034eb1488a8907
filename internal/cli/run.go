// internal/cli/run.go
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	reprostatus "github.com/archlinux/arch-repro-status"
	"github.com/archlinux/arch-repro-status/pkg/core"
	"github.com/archlinux/arch-repro-status/pkg/inspect"
	"github.com/archlinux/arch-repro-status/pkg/logging"
	"github.com/archlinux/arch-repro-status/pkg/platform"
	"github.com/archlinux/arch-repro-status/pkg/report"
)

func run(cmd *cobra.Command, s *settings) error {
	logCfg := logging.DefaultConfig()
	logCfg.Quiet = s.Quiet
	logCfg.Verbosity = s.Verbosity
	logCfg.Output = cmd.ErrOrStderr()
	logger := logging.New(logCfg)

	var progress io.Writer
	if s.Inspect && !s.Quiet && logging.IsTerminal(os.Stderr) {
		progress = os.Stderr
	}

	mgr, err := reprostatus.NewManager(s.Config(), progress, reprostatus.WithLogger(logger))
	if err != nil {
		return err
	}

	query := reprostatus.Query{
		Maintainer: s.Maintainer,
		All:        s.All,
		Filter:     s.Filter,
		Names:      s.Names,
	}

	if query.IsLocal() {
		if p := platform.Detect(); !p.IsArchLinux() {
			logger.Warn().Stringer("platform", p).Msg("not running on Arch Linux, the local package database may be missing")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	pkgs, err := mgr.Query(ctx, query)
	stop()
	if err != nil {
		return err
	}

	if !s.Inspect {
		return report.Print(cmd.OutOrStdout(), pkgs, query.IsLocal())
	}
	return inspectPackages(cmd, mgr, s, pkgs, logger)
}

func inspectPackages(cmd *cobra.Command, mgr *reprostatus.Manager, s *settings, pkgs []core.Package, logger zerolog.Logger) error {
	store, err := mgr.Cache(s.CacheDir)
	if err != nil {
		return err
	}
	logger.Debug().Str("dir", store.Dir()).Msg("using log cache")

	guard := inspect.NewCursorGuard(os.Stderr)
	guard.Install()
	defer guard.Release()

	session := inspect.NewSession(
		inspect.NewTerminalPrompter(),
		inspect.NewCommandPager(s.Pager),
		store,
		inspect.WithOutput(cmd.OutOrStdout()),
		inspect.WithFilter(s.Filter),
		inspect.WithLogger(logger),
	)
	return session.Run(context.WithoutCancel(cmd.Context()), pkgs, 0)
}
