package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscalate(t *testing.T) {
	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority Priority
		age      time.Duration
		expected Priority
	}{
		{"low at creation", PriorityLow, 0, PriorityLow},
		{"low one second before medium", PriorityLow, LowToMediumAfter - time.Second, PriorityLow},
		{"low at medium threshold", PriorityLow, LowToMediumAfter, PriorityMedium},
		{"low one second before high", PriorityLow, LowToHighAfter - time.Second, PriorityMedium},
		{"low at high threshold", PriorityLow, LowToHighAfter, PriorityHigh},
		{"low long after", PriorityLow, 24 * time.Hour, PriorityHigh},
		{"medium one second before high", PriorityMedium, MediumToHighAfter - time.Second, PriorityMedium},
		{"medium at high threshold", PriorityMedium, MediumToHighAfter, PriorityHigh},
		{"high stays high", PriorityHigh, 0, PriorityHigh},
		{"high never lowers", PriorityHigh, 24 * time.Hour, PriorityHigh},
		{"clock behind creation", PriorityLow, -time.Hour, PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Escalate(tt.priority, created, created.Add(tt.age)))
		})
	}
}

func TestEscalate_MonotonicOverTime(t *testing.T) {
	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	rank := map[Priority]int{PriorityLow: 0, PriorityMedium: 1, PriorityHigh: 2}

	for _, start := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		prev := start
		for m := 0; m <= 40; m++ {
			got := Escalate(start, created, created.Add(time.Duration(m)*time.Minute))
			assert.GreaterOrEqual(t, rank[got], rank[prev], "start=%s minute=%d", start, m)
			prev = got
		}
	}
}
