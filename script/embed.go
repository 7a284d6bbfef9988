package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"embed"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadSource returns a script's bytes, preferring an on-disk copy so the
// watcher-driven reload picks up edits, and falling back to the embed.
func LoadSource(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskScriptPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "script/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskScriptPath(clean string) string {
	return filepath.Join("script", filepath.FromSlash(clean))
}
