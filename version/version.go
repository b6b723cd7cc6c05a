package version

// Set at build time via -ldflags "-X github.com/ChristianF88/radixsort/version.Version=..."
var (
	Version = "dev"
	Date    = ""
)
