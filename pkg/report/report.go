// Package report prints reproducibility results for humans.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/archlinux/arch-repro-status/pkg/core"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

type styles struct {
	good    lipgloss.Style
	bad     lipgloss.Style
	unknown lipgloss.Style
	bold    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		good:    r.NewStyle().Foreground(lipgloss.Color("2")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("1")),
		unknown: r.NewStyle().Foreground(lipgloss.Color("3")),
		bold:    r.NewStyle().Bold(true),
	}
}

func (s styles) glyph(status rebuilderd.Status) string {
	switch status {
	case rebuilderd.StatusGood:
		return s.good.Render("+")
	case rebuilderd.StatusBad:
		return s.bad.Render("-")
	default:
		return s.unknown.Render("?")
	}
}

// Print writes one line per package followed by a summary.
// isLocal selects the wording used for installed packages.
func Print(w io.Writer, pkgs []core.Package, isLocal bool) error {
	st := newStyles(w)

	negatives := 0
	for _, pkg := range pkgs {
		if pkg.Status != rebuilderd.StatusGood {
			negatives++
		}
		if _, err := fmt.Fprintf(w, "[%s] %s\n", st.glyph(pkg.Status), pkg); err != nil {
			return err
		}
	}

	if len(pkgs) == 0 {
		_, err := fmt.Fprintln(w, "No packages found.")
		return err
	}

	total := len(pkgs)
	not := st.bold.Render("not")

	var err error
	switch negatives {
	case 0:
		_, err = fmt.Fprintln(w, "All packages are reproducible!")
	case 1:
		suffix := ""
		if total > 1 {
			suffix = " Almost there."
		}
		_, err = fmt.Fprintf(w, "1/%d package is %s reproducible.%s\n", total, not, suffix)
	default:
		_, err = fmt.Fprintf(w, "%d/%d packages are %s reproducible.\n", negatives, total, not)
	}
	if err != nil {
		return err
	}

	subject := "packages are"
	if isLocal {
		subject = "system is"
	}
	_, err = fmt.Fprintf(w, "Your %s %.2f%% reproducible.\n", subject, Percentage(total-negatives, total))
	return err
}

// Percentage returns good out of total as a percentage, 0 for an empty total
func Percentage(good, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(good) / float64(total) * 100
}
