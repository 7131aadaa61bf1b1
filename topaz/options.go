package topaz

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Options are the knobs of topaz itself, as opposed to the Configuration,
// which belongs to the user's wallpaper.
type Options struct {
	// Config is the path to the configuration file.
	Config string `koanf:"config"`
	// Journal is the path to the JSON journal, which also serves as the
	// single-instance lock.
	Journal string `koanf:"journal"`
	// RendererLog is where the renderer's output goes.
	RendererLog string `koanf:"renderer_log"`
	// WaitTimeout is how long the renderer gets to exit before it's killed.
	WaitTimeout time.Duration `koanf:"wait_timeout"`
	// Verbose journals the parsed configuration and logs in a
	// human-friendlier format.
	Verbose bool `koanf:"verbose"`
}

// DefaultOptions returns the default options of the named application as a
// flat map.
func DefaultOptions(app string) (map[string]interface{}, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to find config dir")
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to find cache dir")
	}

	return map[string]interface{}{
		"config":       filepath.Join(configDir, app, app+".conf"),
		"journal":      filepath.Join(configDir, app, "journal.json"),
		"renderer_log": filepath.Join(cacheDir, app, "renderer.log"),
		"wait_timeout": ProcessWaitTimeout.String(),
		"verbose":      false,
	}, nil
}

// LoadOptions resolves the options from, in increasing priority: defaults,
// environment variables starting with envPrefix (TOPAZ_WAIT_TIMEOUT for
// wait_timeout), then overrides, which usually come from flags.
func LoadOptions(defaults, overrides map[string]interface{}, envPrefix string) (Options, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Options{}, errors.Wrap(err, "failed to load defaults")
	}

	transformEnv := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnv), nil); err != nil {
		return Options{}, errors.Wrap(err, "failed to load env vars")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Options{}, errors.Wrap(err, "failed to load overrides")
		}
	}

	var opts Options
	if err := k.UnmarshalWithConf("", &opts, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Options{}, errors.Wrap(err, "failed to decode options")
	}

	return opts, nil
}
