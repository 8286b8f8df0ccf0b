package util

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, ParseLogLevel("warn", log.InfoLevel))
	assert.Equal(t, log.InfoLevel, ParseLogLevel("chatty", log.InfoLevel))
}

func TestSetupLogger(t *testing.T) {
	defer log.ResetDefault(log.Default())

	config.LogFormat = "json"
	config.LogLevel = "debug"
	config.LogFilter = ""
	logger, sqlLogger, err := SetupLogger()
	assert.NilError(t, err)
	assert.Equal(t, log.DebugLevel, logger.Level())
	assert.Assert(t, sqlLogger != nil)

	config.LogFilter = "loud:*"
	_, _, err = SetupLogger()
	assert.ErrorContains(t, err, "invalid log filter")
	config.LogFilter = ""
}
