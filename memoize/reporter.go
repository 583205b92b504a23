package memoize

// Reporter receives one event per memoized call.
type Reporter interface {
	// ReportHit is called when a value was served from the cache.
	ReportHit()
	// ReportMiss is called when the memoized function ran.
	ReportMiss()
	// ReportFault is called when the backend failed.
	ReportFault()
}

type nopReporter struct{}

func (nopReporter) ReportHit()   {}
func (nopReporter) ReportMiss()  {}
func (nopReporter) ReportFault() {}
