package flatten

// Stage names reported to a Progress sink.
const (
	StageMap          = "split"
	StageFibrosis     = "fibrosis"
	StageMeasurements = "measurements"
	StageFindings     = "findings"
)

// Progress receives per-record notifications from the flattening loops.
// It is instrumentation only and cannot affect the result.
type Progress interface {
	StageStarted(stage string, total int)
	RecordDone(stage string, done int)
	StageFinished(stage string)
}

// NopProgress discards all notifications.
type NopProgress struct{}

func (NopProgress) StageStarted(string, int) {}
func (NopProgress) RecordDone(string, int) {}
func (NopProgress) StageFinished(string) {}
