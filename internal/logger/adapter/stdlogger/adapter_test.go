package stdlogger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/tindevelopers/tinadmin-saas-base/internal/logger/adapter/stdlogger"
)

func captureGlobal(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func TestAdapter(t *testing.T) {
	buf := captureGlobal(t, zerolog.InfoLevel)
	l := stdlogger.New()

	l.Debugf("stdlogger %s", "debug")
	l.Infof("stdlogger %s", "info")
	l.Warningf("stdlogger %s", "warning")
	l.Errorf("stdlogger %s", "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3, "debug is below the global level")
	assert.Contains(t, lines[0], `"level":"info"`)
	assert.Contains(t, lines[0], "stdlogger info")
	assert.Contains(t, lines[1], `"level":"warn"`)
	assert.Contains(t, lines[2], `"level":"error"`)
	assert.NotContains(t, buf.String(), "component")
}

func TestAdapter_Printf(t *testing.T) {
	buf := captureGlobal(t, zerolog.TraceLevel)

	stdlogger.New("redis").Printf(context.Background(), "redis: dial %s failed\n", "127.0.0.1:6379")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"component":"redis"`)
	assert.Contains(t, out, `"message":"redis: dial 127.0.0.1:6379 failed"`)
}
