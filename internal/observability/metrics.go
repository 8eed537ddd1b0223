package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	deliveryCount map[string]int64
	requestTime   time.Duration
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests         map[string]int64 `json:"requests"`
	Errors           map[string]int64 `json:"errors"`
	Deliveries       map[string]int64 `json:"deliveries"`
	TotalRequestTime string           `json:"total_request_time"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		deliveryCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestTime += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordDelivery counts one chat message attempt by kind and outcome.
func (m *Metrics) RecordDelivery(kind domain.MessageKind, status domain.DeliveryStatus) {
	if m == nil {
		return
	}
	key := string(kind) + "|" + string(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveryCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Requests:         copyCounts(m.requestCount),
		Errors:           copyCounts(m.errorCount),
		Deliveries:       copyCounts(m.deliveryCount),
		TotalRequestTime: m.requestTime.String(),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
