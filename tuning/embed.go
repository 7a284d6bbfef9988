package tuning

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var TuningFS embed.FS

// Load returns a tuning file's bytes, preferring an on-disk copy so edits
// take effect without a rebuild, and falling back to the embedded copy.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return TuningFS.ReadFile(clean)
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "tuning/") {
		return strings.TrimPrefix(s, "tuning/")
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join("tuning", filepath.FromSlash(clean))
}
