package ports

// Metrics puerto de salida para contadores operativos. El adaptador Prometheus vive en
// infrastructure/metrics; NopMetrics sirve para tests y herramientas.
type Metrics interface {
	SaleCreated(settlement string)
	SaleDeleted()
	TxConflict()
	FiscalSubmission(result string)
	SequenceIssued(namespace string)
}

// NopMetrics descarta todas las observaciones.
type NopMetrics struct{}

func (NopMetrics) SaleCreated(string)      {}
func (NopMetrics) SaleDeleted()            {}
func (NopMetrics) TxConflict()             {}
func (NopMetrics) FiscalSubmission(string) {}
func (NopMetrics) SequenceIssued(string)   {}
