// Package metrics exposes the engine's Prometheus collectors: per-channel
// signal and command metrics, spectrum demodulator activity, and
// multicast transport health, following the promauto registration pattern.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the engine registers. Construct one with
// New and share it across the channel manager, spectrum demodulators and
// multicast listener.
type Metrics struct {
	channelsActive     prometheus.Gauge
	channelsCreatedTotal   prometheus.Counter
	channelsDestroyedTotal prometheus.Counter

	commandsAppliedTotal  *prometheus.CounterVec
	commandApplyLatency   prometheus.Histogram
	restartsTotal         prometheus.Counter

	statusPacketsSentTotal *prometheus.CounterVec
	statusPacketsDroppedTotal prometheus.Counter
	commandPacketsRecvTotal   prometheus.Counter
	dedupSuppressedTotal      prometheus.Counter

	spectrumPollsTotal      *prometheus.CounterVec
	spectrumReconfigsTotal  prometheus.Counter
	spectrumPollLatency     prometheus.Histogram
	spectrumNaNBinsTotal    prometheus.Counter

	agcGainDB     *prometheus.GaugeVec
	signalLevelDB *prometheus.GaugeVec
	squelchOpen   *prometheus.GaugeVec
}

// New registers and returns the engine's collector set against the
// default Prometheus registry.
func New() *Metrics {
	return &Metrics{
		channelsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "radiod_channels_active",
			Help: "Number of channels currently open",
		}),
		channelsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_channels_created_total",
			Help: "Total channels created since start",
		}),
		channelsDestroyedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_channels_destroyed_total",
			Help: "Total channels torn down since start",
		}),
		commandsAppliedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radiod_commands_applied_total",
				Help: "Total commands applied, by outcome (ok, rejected, restart)",
			},
			[]string{"outcome"},
		),
		commandApplyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "radiod_command_apply_seconds",
			Help:    "Time to apply a pending command to a channel",
			Buckets: prometheus.DefBuckets,
		}),
		restartsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_channel_restarts_total",
			Help: "Total demodulator restarts triggered by structural parameter changes",
		}),
		statusPacketsSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radiod_status_packets_sent_total",
				Help: "Total status packets sent, by trigger (poll, update, discovery)",
			},
			[]string{"trigger"},
		),
		statusPacketsDroppedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_status_packets_dropped_total",
			Help: "Status sends dropped because the socket send buffer was full",
		}),
		commandPacketsRecvTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_command_packets_received_total",
			Help: "Total command packets received on the control group",
		}),
		dedupSuppressedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_discovery_responses_suppressed_total",
			Help: "Discovery responses suppressed by the dedup window",
		}),
		spectrumPollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radiod_spectrum_polls_total",
				Help: "Spectrum demodulator polls, by mode (wideband, narrowband)",
			},
			[]string{"mode"},
		),
		spectrumReconfigsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_spectrum_reconfigs_total",
			Help: "Spectrum demodulator FFT/window reconfigurations",
		}),
		spectrumPollLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "radiod_spectrum_poll_seconds",
			Help:    "Time to produce one spectrum poll's bin set",
			Buckets: prometheus.DefBuckets,
		}),
		spectrumNaNBinsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "radiod_spectrum_nan_bins_total",
			Help: "FFT bin accumulations dropped for being NaN or Inf",
		}),
		agcGainDB: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radiod_channel_agc_gain_db",
				Help: "Current AGC gain in dB, by channel SSRC",
			},
			[]string{"ssrc"},
		),
		signalLevelDB: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radiod_channel_signal_level_db",
				Help: "Current signal level in dB, by channel SSRC",
			},
			[]string{"ssrc"},
		),
		squelchOpen: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radiod_channel_squelch_open",
				Help: "1 if the channel's squelch is open, 0 otherwise, by channel SSRC",
			},
			[]string{"ssrc"},
		),
	}
}

func (m *Metrics) ChannelCreated()   { m.channelsCreatedTotal.Inc(); m.channelsActive.Inc() }
func (m *Metrics) ChannelDestroyed() { m.channelsDestroyedTotal.Inc(); m.channelsActive.Dec() }

func (m *Metrics) CommandApplied(outcome string, seconds float64) {
	m.commandsAppliedTotal.WithLabelValues(outcome).Inc()
	m.commandApplyLatency.Observe(seconds)
}

func (m *Metrics) RestartTriggered() { m.restartsTotal.Inc() }

func (m *Metrics) StatusSent(trigger string)   { m.statusPacketsSentTotal.WithLabelValues(trigger).Inc() }
func (m *Metrics) StatusDropped()              { m.statusPacketsDroppedTotal.Inc() }
func (m *Metrics) CommandReceived()            { m.commandPacketsRecvTotal.Inc() }
func (m *Metrics) DiscoverySuppressed()        { m.dedupSuppressedTotal.Inc() }

func (m *Metrics) SpectrumPoll(mode string, seconds float64) {
	m.spectrumPollsTotal.WithLabelValues(mode).Inc()
	m.spectrumPollLatency.Observe(seconds)
}
func (m *Metrics) SpectrumReconfigured() { m.spectrumReconfigsTotal.Inc() }
func (m *Metrics) SpectrumNaNBin()       { m.spectrumNaNBinsTotal.Inc() }

func (m *Metrics) SetAGCGain(ssrc string, db float64)       { m.agcGainDB.WithLabelValues(ssrc).Set(db) }
func (m *Metrics) SetSignalLevel(ssrc string, db float64)   { m.signalLevelDB.WithLabelValues(ssrc).Set(db) }
func (m *Metrics) SetSquelchOpen(ssrc string, open bool) {
	v := 0.0
	if open {
		v = 1.0
	}
	m.squelchOpen.WithLabelValues(ssrc).Set(v)
}
