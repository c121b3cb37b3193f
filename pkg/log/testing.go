package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// TestLogger captures log records in memory as JSON lines so tests can
// assert on what a featurizer reported.
type TestLogger struct {
	mu     *sync.Mutex
	buffer *bytes.Buffer
	level  Level
	fields map[string]interface{}
}

// NewTestLogger creates a TestLogger capturing records at or above level.
//
// Example:
//
//	logger, buffer := log.NewTestLogger(log.LevelDebug)
//	imputer := preprocessing.NewBackwardFillEstimator[int64](preprocessing.WithLogger(logger))
//	...
//	assert.Contains(t, buffer.String(), "unresolved nulls dropped")
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{
		mu:     &sync.Mutex{},
		buffer: buffer,
		level:  level,
		fields: make(map[string]interface{}),
	}, buffer
}

// Debug implements Logger.Debug.
func (t *TestLogger) Debug(msg string, fields ...any) {
	if t.level <= LevelDebug {
		t.writeLog(LevelDebug, msg, fields...)
	}
}

// Info implements Logger.Info.
func (t *TestLogger) Info(msg string, fields ...any) {
	if t.level <= LevelInfo {
		t.writeLog(LevelInfo, msg, fields...)
	}
}

// Warn implements Logger.Warn.
func (t *TestLogger) Warn(msg string, fields ...any) {
	if t.level <= LevelWarn {
		t.writeLog(LevelWarn, msg, fields...)
	}
}

// Error implements Logger.Error.
func (t *TestLogger) Error(msg string, fields ...any) {
	if t.level > LevelError {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttrKey, err}, fields[1:]...)
		}
	}
	t.writeLog(LevelError, msg, fields...)
}

// With implements Logger.With.
func (t *TestLogger) With(fields ...any) Logger {
	newFields := make(map[string]interface{}, len(t.fields)+len(fields)/2)
	for k, v := range t.fields {
		newFields[k] = v
	}
	for i := 0; i < len(fields)-1; i += 2 {
		newFields[fmt.Sprintf("%v", fields[i])] = fieldValue(fields[i+1])
	}

	return &TestLogger{
		mu:     t.mu,
		buffer: t.buffer,
		level:  t.level,
		fields: newFields,
	}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

func (t *TestLogger) writeLog(level Level, msg string, fields ...any) {
	entry := map[string]interface{}{
		"level":   level.String(),
		"message": msg,
	}
	for k, v := range t.fields {
		entry[k] = v
	}
	for i := 0; i < len(fields)-1; i += 2 {
		entry[fmt.Sprintf("%v", fields[i])] = fieldValue(fields[i+1])
	}

	jsonData, _ := json.Marshal(entry)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.Write(jsonData)
	t.buffer.WriteByte('\n')
}

// GetLogEntries parses the captured output into one map per record.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	t.mu.Lock()
	raw := t.buffer.String()
	t.mu.Unlock()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any captured record contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Contains(t.buffer.String(), message)
}

// ContainsField reports whether any captured record has key set to value.
// Numbers compare as float64 after the JSON round trip.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v == value {
			return true
		}
	}
	return false
}

// CountLevel returns how many records were captured at level.
func (t *TestLogger) CountLevel(level Level) int {
	entries, err := t.GetLogEntries()
	if err != nil {
		return 0
	}
	n := 0
	for _, entry := range entries {
		if entry["level"] == level.String() {
			n++
		}
	}
	return n
}

// Clear discards all captured records.
func (t *TestLogger) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.Reset()
}

// TestLoggerProvider implements LoggerProvider for tests.
type TestLoggerProvider struct {
	logger *TestLogger
	buffer *bytes.Buffer
}

// NewTestLoggerProvider creates a provider whose loggers share one buffer.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buffer := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger, buffer: buffer}, buffer
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *TestLoggerProvider) GetLogger() Logger {
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.level = level
}
