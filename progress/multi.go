package progress

// Multi fans one event out to several sinks in order.
type Multi []Sink

func (m Multi) Report(e Event) {
	for _, s := range m {
		if s != nil {
			s.Report(e)
		}
	}
}
