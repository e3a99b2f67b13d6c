package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Itshalffull/propbind/pkg/adapters/fs"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "propbind.toml"

// FindRoot walks upwards from startDir looking for a store root: a directory
// holding the system directory (.propbind) or a propbind.toml file.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, fs.DefaultSystemDir) || hasFile(dir, ConfigFile) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("root not found from %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
