package runenv

import (
	"os"
	"strings"
)

const (
	RuntimeDirEnv = "GRIDCAST_RUNTIME_DIR"
	ConfigDirEnv  = "GRIDCAST_CONFIG_DIR"
)

func RuntimeDir() string {
	return strings.TrimSpace(os.Getenv(RuntimeDirEnv))
}

func ConfigDir() string {
	return strings.TrimSpace(os.Getenv(ConfigDirEnv))
}
