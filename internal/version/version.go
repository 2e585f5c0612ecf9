// Package version provides build-time version information and the
// installed game's patch version.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// GamePatch reads the installed game's patch version from the
// Version.txt file in the game directory. The file holds a single
// build tag of the form "prefix_<patch>-<build>"; only the patch part
// identifies the drop tables in play.
func GamePatch(gamePath string) (string, error) {
	path := filepath.Join(gamePath, "Version.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("version: %w", err)
	}

	tag := strings.TrimSpace(string(data))
	_, rest, ok := strings.Cut(tag, "_")
	if !ok {
		return "", fmt.Errorf("version: malformed build tag %q", tag)
	}
	patch, _, _ := strings.Cut(rest, "-")
	if patch == "" {
		return "", fmt.Errorf("version: malformed build tag %q", tag)
	}
	return patch, nil
}
