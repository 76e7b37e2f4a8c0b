package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores de operaciones del registro. Se registran
// contra el Registerer que se pase (no el global) para poder crear routers
// independientes en tests sin colisiones de registro.
type Metrics struct {
	DogsCreatedTotal          prometheus.Counter
	DuplicateMicrochipsTotal  prometheus.Counter
	StatusEventsTotal         prometheus.Counter
	OwnerTransfersTotal       prometheus.Counter
	OwnerTransfersDeniedTotal prometheus.Counter
	VaccinesRecordedTotal     prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DogsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogregistry_dogs_created_total",
			Help: "Total number of dog records created",
		}),
		DuplicateMicrochipsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogregistry_duplicate_microchips_total",
			Help: "Total number of dog creations rejected by duplicate microchip",
		}),
		StatusEventsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogregistry_status_events_total",
			Help: "Total number of status events recorded",
		}),
		OwnerTransfersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogregistry_owner_transfers_total",
			Help: "Total number of completed owner transfers",
		}),
		OwnerTransfersDeniedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogregistry_owner_transfers_denied_total",
			Help: "Total number of owner transfers denied to non-primary vets",
		}),
		VaccinesRecordedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogregistry_vaccines_recorded_total",
			Help: "Total number of vaccine records added",
		}),
	}
}

// Los Inc* toleran receiver nil para que los services no tengan que chequear
// si hay métricas configuradas.

func (m *Metrics) IncDogsCreated() {
	if m == nil {
		return
	}
	m.DogsCreatedTotal.Inc()
}

func (m *Metrics) IncDuplicateMicrochips() {
	if m == nil {
		return
	}
	m.DuplicateMicrochipsTotal.Inc()
}

func (m *Metrics) IncStatusEvents() {
	if m == nil {
		return
	}
	m.StatusEventsTotal.Inc()
}

func (m *Metrics) IncOwnerTransfers() {
	if m == nil {
		return
	}
	m.OwnerTransfersTotal.Inc()
}

func (m *Metrics) IncOwnerTransfersDenied() {
	if m == nil {
		return
	}
	m.OwnerTransfersDeniedTotal.Inc()
}

func (m *Metrics) IncVaccinesRecorded() {
	if m == nil {
		return
	}
	m.VaccinesRecordedTotal.Inc()
}
