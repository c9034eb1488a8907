package pacman

const (
	// DefaultDBPath is where pacman keeps its databases
	DefaultDBPath = "/var/lib/pacman"

	// localDir holds one directory per installed package
	localDir = "local"

	// syncDir holds one <repo>.db archive per repository
	syncDir = "sync"

	// LocalRepo is reported as the repository of installed packages
	LocalRepo = "local"
)

// Repository names
const (
	RepoCore      = "core"      // Critical system packages
	RepoExtra     = "extra"     // General application packages
	RepoCommunity = "community" // Merged into extra, still present on older systems
	RepoMultilib  = "multilib"  // 32-bit compatibility libraries
)

// DefaultRepos lists the repositories checked by default
var DefaultRepos = []string{
	RepoCore,
	RepoExtra,
	RepoCommunity,
	RepoMultilib,
}
