package colour

// ProgressReporter receives clustering progress as whole percentages in
// [0, 100]. Values passed to Report never decrease during a run.
type ProgressReporter interface {
	Report(percent int)
}

// ProgressFunc adapts a plain function to ProgressReporter.
type ProgressFunc func(percent int)

// Report calls f(percent).
func (f ProgressFunc) Report(percent int) {
	f(percent)
}

// progressTracker forwards milestones to an optional reporter, dropping
// values that would move backwards. A panicking reporter is ignored.
type progressTracker struct {
	reporter ProgressReporter
	last     int
}

func newProgressTracker(r ProgressReporter) *progressTracker {
	return &progressTracker{reporter: r, last: -1}
}

func (p *progressTracker) report(percent int) {
	if p.reporter == nil {
		return
	}
	percent = min(max(percent, 0), 100)
	if percent < p.last {
		return
	}
	p.last = percent

	defer func() {
		_ = recover()
	}()
	p.reporter.Report(percent)
}
