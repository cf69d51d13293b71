package factory

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/legacy"
)

type metrics struct {
	constructions *prometheus.CounterVec
	failures      *prometheus.CounterVec
	libraryLoads  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eli",
			Name:      "constructions_total",
			Help:      "Elements constructed, by family and library.",
		}, []string{"family", "library"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eli",
			Name:      "failures_total",
			Help:      "Fatal factory conditions, by reason.",
		}, []string{"reason"}),
		libraryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eli",
			Name:      "library_loads_total",
			Help:      "Library load attempts, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.constructions, m.failures, m.libraryLoads)
	}
	return m
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, eli.ErrLibraryNotFound):
		return "library_not_found"
	case errors.Is(err, eli.ErrElementNotFound):
		return "element_not_found"
	case errors.Is(err, eli.ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, legacy.ErrMalformedLegacyBlock):
		return "malformed_legacy_block"
	case errors.Is(err, ErrEmptyType):
		return "empty_type"
	default:
		return "other"
	}
}
