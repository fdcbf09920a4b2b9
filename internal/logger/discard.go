package logger

import "sync"

// NullLogger drops every entry.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Info(_ string, _ map[string]interface{}) {}
func (l *NullLogger) Error(_ error, _ map[string]interface{}) {}
func (l *NullLogger) Fatal(_ error, _ map[string]interface{}) {}
func (l *NullLogger) Debug(_ string, _ map[string]interface{}) {}
func (l *NullLogger) SetLevel(_ Level) {}

// Entry is one captured log line.
type Entry struct {
	Level   Level
	Message string
	Err     error
	Fields  map[string]interface{}
}

// Memory keeps entries in order so tests can assert on them.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

var _ Logger = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) record(e Entry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
}

func (m *Memory) Info(message string, properties map[string]interface{}) {
	m.record(Entry{Level: LevelInfo, Message: message, Fields: properties})
}

func (m *Memory) Error(err error, properties map[string]interface{}) {
	m.record(Entry{Level: LevelError, Message: err.Error(), Err: err, Fields: properties})
}

func (m *Memory) Fatal(err error, properties map[string]interface{}) {
	m.record(Entry{Level: LevelFatal, Message: err.Error(), Err: err, Fields: properties})
}

func (m *Memory) Debug(message string, properties map[string]interface{}) {
	m.record(Entry{Level: LevelDebug, Message: message, Fields: properties})
}

func (m *Memory) SetLevel(_ Level) {}

// Entries returns a copy of everything logged so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ByLevel filters captured entries.
func (m *Memory) ByLevel(level Level) []Entry {
	var out []Entry
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
