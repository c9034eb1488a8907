package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/archlinux/arch-repro-status/pkg/archweb"
)

// WriteInfo prints the metadata of a package as a two-column table
func WriteInfo(w io.Writer, p archweb.Package) error {
	rows := [][2]string{
		{"Name", p.Name},
		{"Base", p.Base},
		{"Repository", p.Repo},
		{"Architecture", p.Arch},
		{"Version", p.FullVersion()},
		{"Description", p.Description},
		{"URL", p.URL},
		{"Filename", p.Filename},
		{"Compressed Size", strconv.FormatInt(p.CompressedSize, 10)},
		{"Installed Size", strconv.FormatInt(p.InstalledSize, 10)},
		{"Build Date", p.BuildDate},
		{"Last Updated", p.LastUpdate},
		{"Flag Date", formatAny(p.FlagDate)},
		{"Maintainers", strings.Join(p.Maintainers, ", ")},
		{"Packager", p.Packager},
		{"Groups", joinAny(p.Groups)},
		{"Licenses", strings.Join(p.Licenses, ", ")},
		{"Conflicts", joinAny(p.Conflicts)},
		{"Provides", joinAny(p.Provides)},
		{"Replaces", strings.Join(p.Replaces, ", ")},
		{"Depends", strings.Join(p.Depends, ", ")},
		{"Optional Deps", strings.Join(p.OptDepends, ", ")},
		{"Make Deps", strings.Join(p.MakeDepends, ", ")},
		{"Check Deps", joinAny(p.CheckDepends)},
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	table := tablewriter.NewTable(w)
	for _, row := range rows {
		if err := table.Append(row[0], row[1]); err != nil {
			return err
		}
	}
	return table.Render()
}

func formatAny(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func joinAny(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatAny(v)
	}
	return strings.Join(parts, ", ")
}
