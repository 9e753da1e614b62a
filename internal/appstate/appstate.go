package appstate

import (
	"os"
	"path/filepath"
	"strings"
)

// State is what the deploy tooling persisted for an app: the container it
// started and where that container listens. Invocation arguments win; these
// values only fill gaps.
type State struct {
	ContainerID string
	IP          string
	Port        string
}

// Load reads the app's state files from root/<app>/. Missing files leave
// the corresponding field empty; a missing directory is not an error.
func Load(root, app string) State {
	dir := filepath.Join(root, app)
	return State{
		ContainerID: readField(dir, "CONTAINER"),
		IP:          readField(dir, "IP"),
		Port:        readField(dir, "PORT"),
	}
}

func readField(dir, name string) string {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
