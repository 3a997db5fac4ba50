package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordForecast(_ *ForecastRecord) error       { return nil }
func (n *NoopRecorder) RecordFailure(_ *FailureRecord) error         { return nil }
func (n *NoopRecorder) RecentForecasts(_ int) ([]ForecastRow, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                 { return nil }
