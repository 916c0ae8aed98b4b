// Package metrics adaptador Prometheus del puerto ports.Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

const namespace = "ventas"

// Prometheus contadores operativos del motor de ventas.
type Prometheus struct {
	salesCreated      *prometheus.CounterVec
	salesDeleted      prometheus.Counter
	txConflicts       prometheus.Counter
	fiscalSubmissions *prometheus.CounterVec
	sequenceIssued    *prometheus.CounterVec
}

var _ ports.Metrics = (*Prometheus)(nil)

// NewPrometheus crea y registra los contadores en reg. Con reg nil se usa el registro por defecto.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Prometheus{
		salesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Ventas registradas por forma de liquidación.",
		}, []string{"settlement"}),
		salesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_deleted_total",
			Help:      "Filas de venta eliminadas (cada mitad de una venta dividida cuenta una vez).",
		}),
		txConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_conflicts_total",
			Help:      "Transacciones reintentadas por serialización, deadlock o lock timeout.",
		}),
		fiscalSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fiscal_submissions_total",
			Help:      "Envíos de documentos fiscales por resultado.",
		}, []string{"result"}),
		sequenceIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequence_issued_total",
			Help:      "Números emitidos por namespace.",
		}, []string{"namespace"}),
	}
	for _, c := range []prometheus.Collector{m.salesCreated, m.salesDeleted, m.txConflicts, m.fiscalSubmissions, m.sequenceIssued} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Prometheus) SaleCreated(settlement string) { m.salesCreated.WithLabelValues(settlement).Inc() }

func (m *Prometheus) SaleDeleted() { m.salesDeleted.Inc() }

func (m *Prometheus) TxConflict() { m.txConflicts.Inc() }

func (m *Prometheus) FiscalSubmission(result string) { m.fiscalSubmissions.WithLabelValues(result).Inc() }

func (m *Prometheus) SequenceIssued(namespace string) { m.sequenceIssued.WithLabelValues(namespace).Inc() }
