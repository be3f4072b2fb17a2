// Package queue defines message payloads exchanged over the message broker.
package queue

// TitleGeneratedEvent is published after a generated title has been
// persisted.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
// The paragraph text is deliberately omitted: it can be large and the
// event stream does not need it.
type TitleGeneratedEvent struct {
    ResultID         uint64  `json:"result_id"`
    UserID           uint64  `json:"user_id"`
    Title            string  `json:"title"`
    Status           string  `json:"status"`
    Confidence       string  `json:"confidence"`
    ProcessingTimeMS float64 `json:"processing_time_ms"`
    GeneratedAt      string  `json:"generated_at"`
}
