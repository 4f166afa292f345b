package syncjob

import (
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

// MultiSink forwards every progress event to each wrapped sink in order.
// It lets a terminal progress bar and the sync history recorder observe
// the same job without the controller knowing about either.
type MultiSink struct {
	sinks []service.ProgressSink
}

// NewMultiSink builds a fan-out sink. Nil entries are skipped so callers
// can pass optional sinks without guarding.
func NewMultiSink(sinks ...service.ProgressSink) *MultiSink {
	kept := make([]service.ProgressSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiSink{sinks: kept}
}

func (m *MultiSink) Progress(update model.ProgressUpdate) {
	for _, s := range m.sinks {
		s.Progress(update)
	}
}

func (m *MultiSink) Completed(company string) {
	for _, s := range m.sinks {
		s.Completed(company)
	}
}

func (m *MultiSink) Failed(company, errorMessage string) {
	for _, s := range m.sinks {
		s.Failed(company, errorMessage)
	}
}

func (m *MultiSink) Cancelled(company string) {
	for _, s := range m.sinks {
		s.Cancelled(company)
	}
}
