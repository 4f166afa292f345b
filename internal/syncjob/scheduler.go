package syncjob

import (
	"sync"
	"time"

	"github.com/tallybridge/tallybridge/internal/service"
)

// TickerScheduler implements service.Scheduler on top of time.Ticker.
// Ticks that fire while the callback is still running are dropped by the
// ticker, which suits a poll loop that must never queue work.
type TickerScheduler struct{}

// NewTickerScheduler creates the production scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Schedule runs fn every interval until the returned cancel is called.
func (s *TickerScheduler) Schedule(interval time.Duration, fn func()) service.Cancel {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
