package tui

import (
	"time"

	"github.com/matheuskafuri/marketpulse/internal/ai"
)

// loadDoneMsg reports the end of a load or refresh.
type loadDoneMsg struct {
	err error
}

type briefMsg struct {
	brief ai.Brief
}

type navErrMsg struct {
	err error
}

type autoRefreshMsg time.Time
