package profile

// Sample is one target-speed evaluation, reported to an Observer.
type Sample struct {
	Waypoint          int
	Distance          float64
	Curvature         float64
	CurvatureVelocity float64
	TargetVelocity    float64
	Velocity          float64
}

// Observer receives target-speed samples. Implementations must be safe for
// concurrent use when shared between agents.
type Observer interface {
	Observe(s Sample)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s Sample)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Sample) { f(s) }

// LogfObserver reports samples through a printf-style logger such as
// monitoring.Logf. A nil logf yields a silent observer.
func LogfObserver(logf func(format string, v ...interface{})) Observer {
	if logf == nil {
		return ObserverFunc(func(Sample) {})
	}
	return ObserverFunc(func(s Sample) {
		logf("waypoint %d: curvature velocity: %.1f, target velocity: %.1f, velocity: %.1f",
			s.Waypoint, s.CurvatureVelocity, s.TargetVelocity, s.Velocity)
	})
}
