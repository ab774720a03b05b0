package port

// StateRecorder persists published sensor states to a time-series backend.
// Writes must be non-blocking; the actor layer calls them on every update.
type StateRecorder interface {
	RecordNumericState(sensorId string, value float64)
	RecordTextState(sensorId string, value string)
	Close()
}
