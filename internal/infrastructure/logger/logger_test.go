package logger

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LoggerConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(config.LoggerConfig{Level: "warn", Format: "json", Output: "file", Filename: "/tmp/remindify.log"})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Level.Level() != zapcore.WarnLevel || cfg.Development {
		t.Fatalf("unexpected level or mode: %v %v", cfg.Level.Level(), cfg.Development)
	}
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "/tmp/remindify.log" {
		t.Fatalf("output paths = %v", cfg.OutputPaths)
	}

	cfg, err = buildConfig(config.LoggerConfig{Level: "debug", Format: "console", Output: "file"})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if !cfg.Development || cfg.OutputPaths[0] != "stdout" {
		t.Fatalf("file output without a filename should fall back to stdout: %+v", cfg.OutputPaths)
	}
}

func TestLogGatewayCall_LevelFollowsOutcome(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.LogGatewayCall("list tasks", 1500*time.Microsecond, nil)
	log.LogGatewayCall("get task", time.Millisecond, errors.New("connection refused"))

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[0].ContextMap()["duration_ms"] != 1.5 {
		t.Fatalf("success entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["error"] != "connection refused" {
		t.Fatalf("failure entry: %+v", entries[1])
	}
}

func TestLogUserAction_FlattensMetadata(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	log.WithComponent("aggregator").LogUserAction("u1", "set_task_flag", map[string]interface{}{
		"task_id": "t1",
		"flagged": true,
	})

	entries := logs.AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "aggregator" || fields["user_id"] != "u1" || fields["action"] != "set_task_flag" ||
		fields["task_id"] != "t1" || fields["flagged"] != true {
		t.Fatalf("fields = %v", fields)
	}
}
