package models

import "time"

// RefreshState is a read-only snapshot of the odds refresh scheduler
type RefreshState struct {
	Running     bool                 `json:"running"`
	Interval    time.Duration        `json:"interval"`
	LastRefresh map[string]time.Time `json:"last_refresh"`
	LastTickID  string               `json:"last_tick_id,omitempty"`
	LastTickAt  *time.Time           `json:"last_tick_at,omitempty"`
	TickCount   int64                `json:"tick_count"`
}
