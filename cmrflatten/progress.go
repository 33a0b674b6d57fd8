package main

import (
	"time"

	"github.com/rs/zerolog"
)

// logProgress reports flattening progress through zerolog, at most once
// per interval per stage plus a line at the start and end of each stage.
type logProgress struct {
	logger   zerolog.Logger
	interval time.Duration

	start   time.Time
	lastLog time.Time
	total   int
}

func newLogProgress(logger zerolog.Logger, interval time.Duration) *logProgress {
	return &logProgress{logger: logger, interval: interval}
}

func (p *logProgress) StageStarted(stage string, total int) {
	p.start = time.Now()
	p.lastLog = p.start
	p.total = total
	p.logger.Info().Str("stage", stage).Int("total", total).Msg("stage started")
}

func (p *logProgress) RecordDone(stage string, done int) {
	if time.Since(p.lastLog) < p.interval {
		return
	}
	elapsed := time.Since(p.start).Seconds()
	ev := p.logger.Info().Str("stage", stage).Int("done", done).Int("total", p.total)
	if p.total > 0 {
		ev = ev.Float64("pct", float64(done)/float64(p.total)*100)
	}
	if elapsed > 0 {
		ev = ev.Float64("per_sec", float64(done)/elapsed)
	}
	ev.Msg("progress")
	p.lastLog = time.Now()
}

func (p *logProgress) StageFinished(stage string) {
	p.logger.Info().Str("stage", stage).Dur("elapsed", time.Since(p.start)).Msg("stage finished")
}
