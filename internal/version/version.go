package version

import (
	_ "embed"
	"strings"
)

//go:embed version.txt
var versionFile string

// Version returns the current server version
func Version() string {
	return strings.TrimSpace(versionFile)
}
