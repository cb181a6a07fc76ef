package metrics

import (
	"time"

	"github.com/secmon-lab/overlap/pkg/domain/interfaces"
)

// Nop discards every measurement
type Nop struct{}

var _ interfaces.Metrics = Nop{}

// NewNop creates a no-op metrics sink
func NewNop() Nop {
	return Nop{}
}

func (Nop) RecordParse(int, int) {}
func (Nop) RecordParseFailure(string) {}
func (Nop) RecordAnalysis(time.Duration, int, bool) {}
