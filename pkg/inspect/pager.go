package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandPager shows files with an external program such as less.
// The command is split on whitespace and the file path appended.
type CommandPager struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommandPager returns a pager attached to the terminal
func NewCommandPager(command string) *CommandPager {
	return &CommandPager{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Show runs the pager on path and waits for it to exit.
// A non-zero exit status is an error.
func (p *CommandPager) Show(ctx context.Context, path string) error {
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return errors.New("no pager configured")
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", fields[0], err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", fields[0], err)
	}
	return nil
}
