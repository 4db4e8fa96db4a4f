package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/tunafish2k/minipatch/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/tunafish2k/minipatch/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/tunafish2k/minipatch/internal/version.Date={{.Date}}
)
