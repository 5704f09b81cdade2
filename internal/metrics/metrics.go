package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Gateway-wide counters, one per reconciliation outcome plus the outbound
// operations, bumped by services and read by the debug endpoint.
var (
	ChargesCreated         Counter
	NotificationsMatched   Counter
	NotificationsDuplicate Counter
	NotificationsMismatch  Counter
	NotificationsFailed    Counter
	RefundsIssued          Counter
	RefundsFailed          Counter
)

// Handler exposes the counters as JSON on the debug mux.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := map[string]uint64{
			"charges_created":         ChargesCreated.Load(),
			"notifications_matched":   NotificationsMatched.Load(),
			"notifications_duplicate": NotificationsDuplicate.Load(),
			"notifications_mismatch":  NotificationsMismatch.Load(),
			"notifications_failed":    NotificationsFailed.Load(),
			"refunds_issued":          RefundsIssued.Load(),
			"refunds_failed":          RefundsFailed.Load(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})
}
