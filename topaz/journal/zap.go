package journal

import (
	"git.unix.lgbt/diamondburned/topaz/topaz"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapWriter is a journaler that logs events for humans.
type ZapWriter struct {
	log *zap.Logger
}

var _ topaz.Journaler = ZapWriter{}

// NewZapWriter creates a journaler that logs into the given logger.
func NewZapWriter(log *zap.Logger) ZapWriter {
	return ZapWriter{log}
}

// NewLogger creates the stderr logger. Verbose loggers use the development
// format and log at debug level.
func NewLogger(verbose bool) (*zap.Logger, error) {
	var config zap.Config
	if verbose {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	config.InitialFields = map[string]any{
		"app": "topaz",
	}

	return config.Build()
}

// Write logs the event with its type as the message.
func (w ZapWriter) Write(ev topaz.Event) error {
	w.log.Check(eventLevel(ev), ev.Type()).Write(eventFields(ev)...)
	return nil
}

func eventLevel(ev topaz.Event) zapcore.Level {
	switch ev.(type) {
	case *topaz.EventWarning, *topaz.EventProcessSpawnError, *topaz.EventDependencyNotFound:
		return zapcore.WarnLevel
	case *topaz.EventConfigChanged, *topaz.EventStateChanged:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func eventFields(ev topaz.Event) []zap.Field {
	switch ev := ev.(type) {
	case *topaz.EventWarning:
		return []zap.Field{zap.String("component", ev.Component), zap.String("error", ev.Error)}
	case *topaz.EventConfigLoaded:
		fields := []zap.Field{zap.String("path", ev.Path)}
		if ev.Config != nil {
			fields = append(fields, zap.Any("config", ev.Config))
		}
		return fields
	case *topaz.EventConfigChanged:
		return []zap.Field{zap.String("op", string(ev.Op)), zap.String("path", ev.Path)}
	case *topaz.EventStateChanged:
		return []zap.Field{zap.String("from", string(ev.From)), zap.String("to", string(ev.To))}
	case *topaz.EventProcessSpawnError:
		return []zap.Field{zap.String("file", ev.File), zap.String("reason", ev.Reason)}
	case *topaz.EventProcessSpawned:
		return []zap.Field{zap.Int("pid", ev.PID), zap.String("file", ev.File)}
	case *topaz.EventProcessExited:
		fields := []zap.Field{zap.Int("pid", ev.PID), zap.String("file", ev.File), zap.Int("exit_code", ev.ExitCode)}
		if ev.Error != "" {
			fields = append(fields, zap.String("error", ev.Error))
		}
		return fields
	case *topaz.EventShutdownRequested:
		return []zap.Field{zap.String("signal", string(ev.Signal))}
	case *topaz.EventDependencyNotFound:
		return []zap.Field{zap.String("name", ev.Name)}
	default:
		return nil
	}
}
