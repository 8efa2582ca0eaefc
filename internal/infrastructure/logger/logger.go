package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
)

// serviceName is stamped on every entry so Remindify logs can be picked out
// of a shared sink.
const serviceName = "remindify"

// Logger is the structured logger shared by the Remindify services, handlers
// and CLI commands. It adds helpers for the events the server cares about:
// store round trips, task and list mutations and sign-in problems.
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger from the logger section of the configuration. The
// "json" format is meant for deployments; anything else gives readable
// console output with stack traces.
func New(cfg config.LoggerConfig) (*Logger, error) {
	zapConfig, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}

	// Skip this wrapper so callers show up as the log site.
	zapLogger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar().With("service", serviceName),
	}, nil
}

func buildConfig(cfg config.LoggerConfig) (zap.Config, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.Output == "file" && cfg.Filename != "" {
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	return zapConfig, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields returns a child logger carrying the given key/value pairs.
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithUserID tags entries with the signed-in user's ID
func (l *Logger) WithUserID(userID string) *Logger {
	return l.WithFields("user_id", userID)
}

// WithComponent tags entries with the service that wrote them, such as
// "aggregator" or "importer".
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// LogGatewayCall records one query against the list and task store. Failed
// calls log at error level; successful ones only at debug.
func (l *Logger) LogGatewayCall(op string, elapsed time.Duration, err error) {
	fields := []interface{}{
		"op", op,
		"duration_ms", float64(elapsed.Microseconds()) / 1000,
	}

	if err != nil {
		l.Errorw("Store query failed", append(fields, "error", err.Error())...)
		return
	}
	l.Debugw("Store query", fields...)
}

// LogUserAction records a change a user made to their lists or tasks.
// metadata is flattened into the entry.
func (l *Logger) LogUserAction(userID, action string, metadata map[string]interface{}) {
	fields := make([]interface{}, 0, 4+2*len(metadata))
	fields = append(fields, "user_id", userID, "action", action)
	for k, v := range metadata {
		fields = append(fields, k, v)
	}

	l.Infow("User action", fields...)
}

// LogSecurityEvent records a rejected token, a state mismatch on the
// sign-in callback or a similar event worth auditing.
func (l *Logger) LogSecurityEvent(event, userID, ip string, details map[string]interface{}) {
	fields := make([]interface{}, 0, 6+2*len(details))
	fields = append(fields, "security_event", event, "user_id", userID, "ip", ip)
	for k, v := range details {
		fields = append(fields, k, v)
	}

	l.Warnw("Security event", fields...)
}

// Close flushes buffered entries. Call it before the process exits.
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
