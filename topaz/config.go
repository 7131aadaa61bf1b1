package topaz

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// FileKey is the only configuration key topaz itself needs: the path to the
// media file given to the renderer.
const FileKey = "file"

// Configuration is a parsed configuration file. It is rebuilt in full on every
// load.
type Configuration map[string]string

// File returns the value of the required file key.
func (cfg Configuration) File() (string, bool) {
	file, ok := cfg[FileKey]
	return file, ok
}

// Require returns an ErrMissingKey error if any of the keys is absent.
func (cfg Configuration) Require(keys ...string) error {
	for _, key := range keys {
		if _, ok := cfg[key]; !ok {
			return withKind(ErrMissingKey, errors.Errorf("no %q specified", key))
		}
	}
	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/<app>/<app>.conf.
func DefaultConfigPath(app string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to find config dir")
	}

	return filepath.Join(configDir, app, app+".conf"), nil
}

// ConfigStore loads the configuration file at a fixed path.
type ConfigStore struct {
	path string

	mut  sync.Mutex
	last Configuration
}

// NewConfigStore creates a new store for the given path. Nothing is touched on
// disk until Load is called.
func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

// Path returns the path of the configuration file.
func (s *ConfigStore) Path() string { return s.path }

// Snapshot returns a copy of the last successfully loaded configuration. It is
// empty if Load has never succeeded.
func (s *ConfigStore) Snapshot() Configuration {
	s.mut.Lock()
	defer s.mut.Unlock()

	cfg := make(Configuration, len(s.last))
	for k, v := range s.last {
		cfg[k] = v
	}
	return cfg
}

// Load reads and parses the configuration file. The file and its parent
// directory are created empty if they don't exist yet; an empty file is not
// an error.
func (s *ConfigStore) Load() (Configuration, error) {
	if err := ensureFile(s.path); err != nil {
		return nil, withKind(ErrConfigIO, err)
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, withKind(ErrConfigIO, errors.Wrap(err, "failed to read config"))
	}

	cfg := parseConfig(string(b))

	s.mut.Lock()
	s.last = cfg
	s.mut.Unlock()

	return cfg, nil
}

func ensureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0600)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}

	return f.Close()
}

// ParseConfig parses key=value lines. Everything from the first '#' on a line
// is a comment. The rest is split on the first '='; the line counts only if
// both the key and the value are non-empty. Both are kept as written, spaces
// included. Malformed lines are skipped silently, and later keys override
// earlier ones.
func ParseConfig(r io.Reader) (Configuration, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	return parseConfig(string(b)), nil
}

func parseConfig(s string) Configuration {
	cfg := Configuration{}

	for _, line := range strings.Split(s, "\n") {
		if k, v, ok := parseLine(line); ok {
			cfg[k] = v
		}
	}

	return cfg
}

func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSuffix(line, "\r")

	if i := strings.IndexByte(line, '#'); i != -1 {
		line = line[:i]
	}

	key, value, ok = strings.Cut(line, "=")
	if !ok || key == "" || value == "" {
		return "", "", false
	}

	return key, value, true
}
