package interfaces

import "time"

// Metrics receives analysis measurements
type Metrics interface {
	// RecordParse counts the outcome of loading one input
	RecordParse(records, dropped int)

	// RecordParseFailure counts a rejected input by error kind
	RecordParseFailure(kind string)

	// RecordAnalysis observes a finished analysis
	RecordAnalysis(duration time.Duration, totalDays int, found bool)
}
