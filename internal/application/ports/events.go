package ports

// EventRecorder puerto de salida para métricas de negocio.
// El adaptador Prometheus vive en infrastructure/metrics; NopRecorder sirve para tests.
type EventRecorder interface {
	AppointmentCreated()
	SchedulingConflict()
	AppointmentStatusChanged(status string)
	StockMoved(movementType string)
	InsufficientStock()
}

// NopRecorder descarta todos los eventos.
type NopRecorder struct{}

func (NopRecorder) AppointmentCreated()             {}
func (NopRecorder) SchedulingConflict()             {}
func (NopRecorder) AppointmentStatusChanged(string) {}
func (NopRecorder) StockMoved(string)               {}
func (NopRecorder) InsufficientStock()              {}

// OrNop devuelve r o un NopRecorder si r es nil.
func OrNop(r EventRecorder) EventRecorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}
