package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ciconfig/internal/utils"
)

func TestCreateLoggerAcceptsSupportedCombinations(testInstance *testing.T) {
	testCases := []struct {
		name      string
		logLevel  utils.LogLevel
		logFormat utils.LogFormat
	}{
		{name: "debug_structured", logLevel: utils.LogLevelDebug, logFormat: utils.LogFormatStructured},
		{name: "info_structured", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormatStructured},
		{name: "warn_console", logLevel: utils.LogLevelWarn, logFormat: utils.LogFormatConsole},
		{name: "error_console", logLevel: utils.LogLevelError, logFormat: utils.LogFormatConsole},
	}

	loggerFactory := utils.NewLoggerFactory()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			createdLogger, creationError := loggerFactory.CreateLogger(testCase.logLevel, testCase.logFormat)
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, createdLogger)
		})
	}
}

func TestCreateLoggerRejectsUnknownValues(testInstance *testing.T) {
	loggerFactory := utils.NewLoggerFactory()

	_, levelError := loggerFactory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatStructured)
	require.ErrorContains(testInstance, levelError, "unknown log level")

	_, formatError := loggerFactory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("plain"))
	require.ErrorContains(testInstance, formatError, "unknown log format")
}
