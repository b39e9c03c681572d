package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for HTTP requests and
// bot commands.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	commandCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		commandCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordCommand increments the counter for a dispatched bot command.
func (m *Metrics) RecordCommand(command string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandCount[command]++
}

// RecordCommandError increments error counters for a failed command.
func (m *Metrics) RecordCommandError(command, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount["command|"+command+"|"+code]++
}

// RecordError increments error counters for a failed request.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[path+"|"+method+"|"+code]++
}

// CommandCount returns the dispatch count for a command.
func (m *Metrics) CommandCount(command string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commandCount[command]
}
