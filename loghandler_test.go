package promptline

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(level slog.Leveler) (*slog.Logger, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return slog.New(NewLogHandler(NewPrinter(out), level)), out
}

func TestLogHandler_Format(t *testing.T) {
	logger, out := newTestLogger(slog.LevelDebug)

	logger.Debug("d")
	logger.Info("hello", "k", "v", "q", "a b", "empty", "")
	logger.Warn("careful")
	logger.Error("failed", "err", `say "hi"`)

	assert.Equal(t, "[DEBUG]: d\n"+
		"[INFO]: hello k=v q=\"a b\" empty=\"\"\n"+
		"[WARNING]: careful\n"+
		"[ERROR]: failed err=\"say \\\"hi\\\"\"\n", out.String())
}

func TestLogHandler_Level(t *testing.T) {
	level := new(slog.LevelVar)
	logger, out := newTestLogger(level)

	logger.Debug("quiet")
	assert.Empty(t, out.String())

	level.Set(slog.LevelDebug)
	logger.Debug("loud")
	assert.Equal(t, "[DEBUG]: loud\n", out.String())

	nilLogger, out := newTestLogger(nil)
	nilLogger.Debug("quiet")
	nilLogger.Info("shown")
	assert.Equal(t, "[INFO]: shown\n", out.String())
}

func TestLogHandler_AttrsAndGroups(t *testing.T) {
	logger, out := newTestLogger(nil)

	logger.With("id", 1).WithGroup("req").Info("m", "path", "/x", slog.Group("user", "name", "ann"))
	assert.Equal(t, "[INFO]: m id=1 req.path=/x req.user.name=ann\n", out.String())
}
