package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LoggerTestSuite defines a test suite for logger functions
type LoggerTestSuite struct {
	suite.Suite
	buffer *bytes.Buffer
}

// SetupTest runs before each test
func (suite *LoggerTestSuite) SetupTest() {
	suite.buffer = &bytes.Buffer{}
}

// TearDownTest runs after each test
func (suite *LoggerTestSuite) TearDownTest() {
	if suite.buffer != nil {
		suite.buffer.Reset()
	}
}

// Helper function to create a logger with custom output
func (suite *LoggerTestSuite) createLoggerWithBuffer(level, format string) Logger {
	logger := NewLogger(level, format)
	logrusLogger, ok := logger.(*LogrusLogger)
	require.True(suite.T(), ok)
	logrusLogger.logger.SetOutput(suite.buffer)
	if format != "json" {
		// Disable colors for testing
		logrusLogger.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     false,
		})
	}
	return logger
}

// TestNewLogger tests the NewLogger function with different configurations
func (suite *LoggerTestSuite) TestNewLogger() {
	testCases := []struct {
		name   string
		level  string
		format string
	}{
		{"Debug level with JSON format", "debug", "json"},
		{"Info level with text format", "info", "text"},
		{"Warn level with JSON format", "warn", "json"},
		{"Error level with text format", "error", "text"},
		{"Invalid level defaults to info", "invalid", "json"},
		{"Empty level defaults to info", "", "text"},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			logger := NewLogger(tc.level, tc.format)
			assert.NotNil(t, logger)
			assert.Implements(t, (*Logger)(nil), logger)
		})
	}
}

// TestLoggerLevels tests level filtering
func (suite *LoggerTestSuite) TestLoggerLevels() {
	testCases := []struct {
		name      string
		level     string
		logFunc   func(Logger)
		shouldLog bool
	}{
		{
			name:      "Debug level logs debug messages",
			level:     "debug",
			logFunc:   func(l Logger) { l.Debug("debug message") },
			shouldLog: true,
		},
		{
			name:      "Info level skips debug messages",
			level:     "info",
			logFunc:   func(l Logger) { l.Debug("debug message") },
			shouldLog: false,
		},
		{
			name:      "Info level logs info messages",
			level:     "info",
			logFunc:   func(l Logger) { l.Info("info message") },
			shouldLog: true,
		},
		{
			name:      "Warn level skips info messages",
			level:     "warn",
			logFunc:   func(l Logger) { l.Info("info message") },
			shouldLog: false,
		},
		{
			name:      "Error level skips warn messages",
			level:     "error",
			logFunc:   func(l Logger) { l.Warn("warn message") },
			shouldLog: false,
		},
		{
			name:      "Error level logs error messages",
			level:     "error",
			logFunc:   func(l Logger) { l.Error("error message") },
			shouldLog: true,
		},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			logger := suite.createLoggerWithBuffer(tc.level, "text")
			suite.buffer.Reset()

			tc.logFunc(logger)

			output := suite.buffer.String()
			if tc.shouldLog {
				assert.NotEmpty(t, output)
			} else {
				assert.Empty(t, output)
			}
		})
	}
}

// TestFormattedMethods tests the printf-style variants
func (suite *LoggerTestSuite) TestFormattedMethods() {
	logger := suite.createLoggerWithBuffer("debug", "text")

	suite.buffer.Reset()
	logger.Debugf("debug message with %s and %d", "string", 42)
	assert.Contains(suite.T(), suite.buffer.String(), "debug message with string and 42")

	suite.buffer.Reset()
	logger.Infof("processed %d invoices", 7)
	assert.Contains(suite.T(), suite.buffer.String(), "processed 7 invoices")

	suite.buffer.Reset()
	logger.Warnf("breach detected on %s", "order-1")
	assert.Contains(suite.T(), suite.buffer.String(), "breach detected on order-1")

	suite.buffer.Reset()
	logger.Errorf("update failed: %v", "version conflict")
	assert.Contains(suite.T(), suite.buffer.String(), "update failed: version conflict")
}

// TestJSONFormat tests JSON format output
func (suite *LoggerTestSuite) TestJSONFormat() {
	logger := suite.createLoggerWithBuffer("info", "json")

	suite.buffer.Reset()
	logger.Info("test json message")
	output := suite.buffer.String()

	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(output)), &logEntry)
	assert.NoError(suite.T(), err)

	assert.Contains(suite.T(), logEntry, "level")
	assert.Contains(suite.T(), logEntry, "msg")
	assert.Contains(suite.T(), logEntry, "time")
	assert.Equal(suite.T(), "info", logEntry["level"])
	assert.Equal(suite.T(), "test json message", logEntry["msg"])
}

// TestTextFormat tests text format output
func (suite *LoggerTestSuite) TestTextFormat() {
	logger := suite.createLoggerWithBuffer("info", "text")

	suite.buffer.Reset()
	logger.Info("test text message")
	output := suite.buffer.String()

	assert.Contains(suite.T(), output, "test text message")
	assert.Regexp(suite.T(), `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`, output)
}

// TestLoggerWithMultipleArguments tests logging with multiple arguments
func (suite *LoggerTestSuite) TestLoggerWithMultipleArguments() {
	logger := suite.createLoggerWithBuffer("info", "text")

	suite.buffer.Reset()
	logger.Info("message", 123, true, 45.67)
	output := suite.buffer.String()

	assert.Contains(suite.T(), output, "message")
	assert.Contains(suite.T(), output, "123")
	assert.Contains(suite.T(), output, "true")
	assert.Contains(suite.T(), output, "45.67")
}

// Run the test suite
func TestLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func TestNewLoggerLevelParsing(t *testing.T) {
	testCases := []struct {
		inputLevel    string
		expectedLevel logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"DEBUG", logrus.DebugLevel}, // logrus.ParseLevel is case insensitive
		{"invalid", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run("Level_"+tc.inputLevel, func(t *testing.T) {
			logger := NewLogger(tc.inputLevel, "text")
			logrusLogger, ok := logger.(*LogrusLogger)
			require.True(t, ok)
			assert.Equal(t, tc.expectedLevel, logrusLogger.logger.Level)
		})
	}
}

func TestNewLoggerFormatSelection(t *testing.T) {
	testCases := []string{"json", "text", "invalid", ""}

	for _, format := range testCases {
		t.Run("Format_"+format, func(t *testing.T) {
			logger := NewLogger("info", format)
			logrusLogger, ok := logger.(*LogrusLogger)
			require.True(t, ok)

			formatter := logrusLogger.logger.Formatter
			if format == "json" {
				_, ok := formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "Expected JSON formatter")
			} else {
				_, ok := formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "Expected Text formatter")
			}
		})
	}
}

func TestLoggerConcurrency(t *testing.T) {
	logger := NewLogger("info", "json")

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() { done <- true }()
			for j := 0; j < 100; j++ {
				logger.Infof("Goroutine %d, message %d", id, j)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	assert.True(t, true)
}
