package renderer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation parameters of the renderer log, following lumberjack semantics.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 7
)

// NewOutput returns a size-rotated log file that both programs of the renderer
// chain write their stdout and stderr into. Renderers come and go on every
// reload, so the same writer is shared by all of them.
func NewOutput(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(err, "failed to create renderer log directory")
	}

	return &lj.Logger{
		Filename:   path,
		MaxSize:    LogMaxSizeMB,
		MaxBackups: LogMaxBackups,
		MaxAge:     LogMaxAgeDays,
		Compress:   true,
	}, nil
}
