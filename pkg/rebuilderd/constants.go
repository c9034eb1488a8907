package rebuilderd

const (
	// DefaultURL is the Arch Linux rebuilderd instance
	DefaultURL = "https://reproducible.archlinux.org"

	// Distro restricts package listings to Arch Linux
	Distro = "archlinux"
)

// API routes, relative to the instance URL
const (
	listPath   = "/api/v0/pkgs/list"
	buildsPath = "/api/v0/builds"
)
