package pacman

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// DB reads the local database and the sync databases of the configured
// repositories. It never writes to the database directory.
type DB struct {
	root   string
	repos  []string
	logger zerolog.Logger
}

// OpenDB opens the pacman database rooted at root (e.g. /var/lib/pacman)
func OpenDB(root string, repos []string, logger zerolog.Logger) (*DB, error) {
	if root == "" {
		root = DefaultDBPath
	}

	info, err := os.Stat(filepath.Join(root, localDir))
	if err != nil {
		return nil, fmt.Errorf("opening local database in %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening local database in %s: %s is not a directory", root, localDir)
	}

	return &DB{root: root, repos: repos, logger: logger}, nil
}

// Root returns the database directory
func (db *DB) Root() string {
	return db.root
}

// LocalPackages returns the installed packages, sorted by directory name
func (db *DB) LocalPackages() ([]*Package, error) {
	dir := filepath.Join(db.root, localDir)
	db.logger.Debug().Str("path", dir).Msg("querying packages from local database")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading local database: %w", err)
	}

	var packages []*Package
	for _, entry := range entries {
		// ALPM_DB_VERSION and friends live next to the package directories
		if !entry.IsDir() {
			continue
		}

		pkg, err := readDesc(filepath.Join(dir, entry.Name(), "desc"))
		if err != nil {
			return nil, err
		}
		pkg.Repository = LocalRepo
		packages = append(packages, pkg)
	}

	return packages, nil
}

// SyncPackages returns the packages of every configured repository, in
// repository order. A repository without a sync database contributes no
// packages, the way libalpm treats an unsynced repository.
func (db *DB) SyncPackages() ([]*Package, error) {
	var packages []*Package
	for _, repo := range db.repos {
		db.logger.Debug().Str("repo", repo).Msg("registering syncdb")

		pkgs, err := db.syncRepo(repo)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkgs...)
	}
	return packages, nil
}

func (db *DB) syncRepo(repo string) ([]*Package, error) {
	path := filepath.Join(db.root, syncDir, repo+".db")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			db.logger.Warn().Str("repo", repo).Str("path", path).Msg("sync database not found")
			return nil, nil
		}
		return nil, fmt.Errorf("opening sync database %s: %w", repo, err)
	}
	defer f.Close()

	pkgs, err := ParseDatabase(f, repo)
	if err != nil {
		return nil, fmt.Errorf("parsing sync database %s: %w", repo, err)
	}
	db.logger.Debug().Str("repo", repo).Int("count", len(pkgs)).Msg("indexed sync database")
	return pkgs, nil
}

func readDesc(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pkg, err := ParseDesc(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pkg, nil
}
