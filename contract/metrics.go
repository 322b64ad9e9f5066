package contract

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "acdm"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Calls by method and outcome (ok|error).
	Calls metrics.Counter
	// Platform tokens sold by the protocol in Sale rounds.
	TokensSold metrics.Counter
	// Native currency paid for listings in Trade rounds.
	TradeVolume metrics.Counter
	// Referral commission paid out, by level.
	ReferralPaid metrics.Counter
	// Round transitions, by the type of the round that started.
	RoundsFinished metrics.Counter
	// Finished proposals, by final status.
	ProposalsFinished metrics.Counter
	// Current accumulated platform bonus.
	PlatformBonus metrics.Gauge
	// Current round price.
	RoundPrice metrics.Gauge
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	// with extends the constant labels without sharing their backing array
	with := func(extra ...string) []string {
		return append(labels[:len(labels):len(labels)], extra...)
	}
	return &Metrics{
		Calls: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "calls_total",
			Help:      "Platform calls by method and outcome.",
		}, with("method", "outcome")).With(labelsAndValues...),
		TokensSold: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "tokens_sold_total",
			Help:      "Platform tokens sold in Sale rounds.",
		}, labels).With(labelsAndValues...),
		TradeVolume: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "trade_volume_total",
			Help:      "Native currency paid for listings.",
		}, labels).With(labelsAndValues...),
		ReferralPaid: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "referral_paid_total",
			Help:      "Referral commission paid, by level.",
		}, with("level")).With(labelsAndValues...),
		RoundsFinished: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "rounds_finished_total",
			Help:      "Round transitions by started round type.",
		}, with("type")).With(labelsAndValues...),
		ProposalsFinished: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "proposals_finished_total",
			Help:      "Finished proposals by final status.",
		}, with("status")).With(labelsAndValues...),
		PlatformBonus: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "platform_bonus",
			Help:      "Accumulated platform bonus.",
		}, labels).With(labelsAndValues...),
		RoundPrice: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "round_price",
			Help:      "Price of the current round.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Calls:             discard.NewCounter(),
		TokensSold:        discard.NewCounter(),
		TradeVolume:       discard.NewCounter(),
		ReferralPaid:      discard.NewCounter(),
		RoundsFinished:    discard.NewCounter(),
		ProposalsFinished: discard.NewCounter(),
		PlatformBonus:     discard.NewGauge(),
		RoundPrice:        discard.NewGauge(),
	}
}

// observe feeds committed events into the counters.
func (m *Metrics) observe(ev Event) {
	switch ev.Name {
	case "Bought":
		m.TokensSold.Add(ev.Amount("am").Float64())
	case "BoughtListed":
		m.TradeVolume.Add(ev.Amount("cost").Float64())
	case "ReferralPaid":
		lvl, _ := ev.Get("lvl")
		m.ReferralPaid.With("level", fieldString(lvl)).Add(ev.Amount("am").Float64())
	case "RoundFinished":
		t, _ := ev.Get("t")
		m.RoundsFinished.With("type", fieldString(t)).Add(1)
		m.RoundPrice.Set(ev.Amount("pr").Float64())
	case "ProposalFinished":
		sn, _ := ev.Get("sn")
		m.ProposalsFinished.With("status", fieldString(sn)).Add(1)
	}
}
