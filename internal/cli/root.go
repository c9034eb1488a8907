// internal/cli/root.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	reprostatus "github.com/archlinux/arch-repro-status"
	"github.com/archlinux/arch-repro-status/pkg/config"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// settings is the resolved command line: flags over env over config file
// over defaults.
type settings struct {
	ConfigFile string
	Quiet      bool
	Verbosity  int
	All        bool
	Inspect    bool
	Maintainer string
	Rebuilderd string
	DBPath     string
	Repos      []string
	Names      []string
	Filter     *rebuilderd.Status
	Pager      string
	CacheDir   string
}

// Config returns the settings that a config file can hold
func (s *settings) Config() *config.Config {
	return &config.Config{
		Rebuilderd: s.Rebuilderd,
		DBPath:     s.DBPath,
		Repos:      s.Repos,
		Pager:      s.Pager,
		CacheDir:   s.CacheDir,
		Maintainer: s.Maintainer,
	}
}

// envKeys maps viper keys to the environment variables that set them
var envKeys = map[string]string{
	"maintainer": "MAINTAINER",
	"rebuilderd": "REBUILDERD",
	"dbpath":     "DBPATH",
	"repos":      "REPOS",
	"pkgnames":   "PKGNAMES",
	"filter":     "FILTER",
	"pager":      "PAGER",
	"cache-dir":  "CACHE_DIR",
}

// runFunc executes a resolved command line
var runFunc = run

var rootCmd = newRootCmd()

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	s := &settings{}

	cmd := &cobra.Command{
		Use:   "arch-repro-status",
		Short: "Check the reproducibility status of Arch Linux packages",
		Long: `arch-repro-status - reproducibility status of Arch Linux packages

Queries a rebuilderd instance such as https://reproducible.archlinux.org for
the packages installed on this system, or for the packages of a maintainer,
and reports which of them could be rebuilt bit for bit.`,
		Version:       reprostatus.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.resolve(v); err != nil {
				return err
			}
			return runFunc(cmd, s)
		},
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&s.ConfigFile, "config", "", "config file (default is $HOME/.config/arch-repro-status/config.yaml)")

	flags := cmd.Flags()
	flags.SetNormalizeFunc(debugAlias)
	flags.BoolVarP(&s.Quiet, "quiet", "q", false, "disable logging")
	flags.CountVarP(&s.Verbosity, "verbose", "v", "increase logging verbosity (alias --debug)")
	flags.BoolVarP(&s.All, "all", "a", false, "check all packages on the system, not only those in the sync databases")
	flags.BoolVarP(&s.Inspect, "inspect", "i", false, "view the build log or diffoscope of an interactively selected package")
	flags.StringP("maintainer", "m", "", "check the packages of this maintainer [env: MAINTAINER]")
	flags.StringP("rebuilderd", "r", rebuilderd.DefaultURL, "address of the rebuilderd instance [env: REBUILDERD]")
	flags.StringP("dbpath", "b", config.Default().DBPath, "path to the pacman database [env: DBPATH]")
	flags.StringSlice("repos", config.Default().Repos, "repositories to query [env: REPOS]")
	flags.StringSliceP("pkgnames", "n", nil, "only show these packages [env: PKGNAMES]")
	flags.StringP("filter", "f", "", "only show packages with this status: GOOD, BAD or UNKWN [env: FILTER]")
	flags.StringP("pager", "p", config.DefaultPager, "pager for viewing logs [env: PAGER]")
	flags.StringP("cache-dir", "c", "", "cache directory for logs [env: CACHE_DIR]")

	cobra.CheckErr(v.BindPFlags(flags))
	for key, env := range envKeys {
		cobra.CheckErr(v.BindEnv(key, env))
	}

	cmd.AddCommand(newVersionCmd(), newConfigCmd(&s.ConfigFile))
	return cmd
}

func debugAlias(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "debug" {
		name = "verbose"
	}
	return pflag.NormalizedName(name)
}

// resolve loads the config file underneath env and flags
func (s *settings) resolve(v *viper.Viper) error {
	cfg, err := config.Load(s.ConfigFile)
	if err != nil {
		return err
	}

	v.SetDefault("maintainer", cfg.Maintainer)
	v.SetDefault("rebuilderd", cfg.Rebuilderd)
	v.SetDefault("dbpath", cfg.DBPath)
	v.SetDefault("repos", cfg.Repos)
	v.SetDefault("pager", cfg.Pager)
	v.SetDefault("cache-dir", cfg.CacheDir)

	s.Maintainer = v.GetString("maintainer")
	s.Rebuilderd = v.GetString("rebuilderd")
	s.DBPath = v.GetString("dbpath")
	s.Repos = stringList(v, "repos")
	s.Names = stringList(v, "pkgnames")
	s.Pager = v.GetString("pager")
	s.CacheDir = v.GetString("cache-dir")

	s.Filter = nil
	if f := v.GetString("filter"); f != "" {
		status, err := rebuilderd.ParseStatus(f)
		if err != nil {
			return fmt.Errorf("invalid argument %q for \"-f, --filter\" flag: %w", f, err)
		}
		s.Filter = &status
	}

	return s.Config().Validate()
}

// stringList reads a list that may come from a slice flag, a config file
// list or a comma separated environment variable.
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case nil:
		return nil
	case string:
		raw = []string{val}
	case []string:
		raw = val
	default:
		raw = v.GetStringSlice(key)
	}

	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
