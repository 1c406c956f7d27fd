package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps in-process request counters, updated on every
// request.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	paymentsTotal   uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordPayment counts successful salary payments.
func (c *Collector) RecordPayment() {
	atomic.AddUint64(&c.paymentsTotal, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	payments := atomic.LoadUint64(&c.paymentsTotal)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal": total,
		"errorsTotal":   errs,
		"paymentsTotal": payments,
		"avgDurationMs": avg,
	}
}
