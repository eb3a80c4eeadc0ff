package depthtop

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := &DefaultLogger{
		prefix: "depthtop",
		out:    log.New(&out, "", 0),
		err:    log.New(&errOut, "", 0),
	}

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.debug.Store(true)
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "[depthtop] DEBUG: shown 2")

	l.Infof("loaded %d window(s)", 3)
	assert.Contains(t, out.String(), "[depthtop] INFO: loaded 3 window(s)")

	l.Errorf("skipping %q", "broken")
	assert.Contains(t, errOut.String(), `[depthtop] ERROR: skipping "broken"`)
	assert.NotContains(t, out.String(), "ERROR")
}

func TestAppLoggerFallsBackToNop(t *testing.T) {
	app := NewApp()
	assert.NotNil(t, app.Logger())

	app.UseModules(LoggingModule{Prefix: "x"})
	_, ok := app.Logger().(*DefaultLogger)
	assert.True(t, ok)
}
