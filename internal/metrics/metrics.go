package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransferTransitions counts state machine results by completed step and status
	TransferTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "near_eth_transfer_transitions_total",
			Help: "Total number of transfer state transitions",
		},
		[]string{"step", "status"},
	)

	// ActiveTransfers tracks transfers the watcher is polling
	ActiveTransfers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "near_eth_active_transfers",
			Help: "Number of transfers still in progress",
		},
	)

	// LocksSubmitted counts lock transactions broadcast to the custodian
	LocksSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "near_eth_locks_submitted_total",
			Help: "Total number of lock transactions submitted",
		},
		[]string{"status"},
	)

	// ReplacementSearches counts replacement transaction searches by outcome
	ReplacementSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "near_eth_replacement_searches_total",
			Help: "Total number of dropped transaction searches",
		},
		[]string{"outcome"},
	)

	// MintSubmissions counts deposit calls handed to the NEAR wallet
	MintSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "near_eth_mint_submissions_total",
			Help: "Total number of mint submissions",
		},
		[]string{"status"},
	)

	// SyncConfirmations tracks the confirmation count seen on the last sync check
	SyncConfirmations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "near_eth_sync_confirmations",
			Help:    "Confirmations observed by the light client per sync check",
			Buckets: []float64{0, 5, 10, 20, 30, 50, 100},
		},
	)

	// PollDuration tracks a full watcher poll
	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "near_eth_watcher_poll_duration_seconds",
			Help:    "Watcher poll duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ErrorsTotal counts errors by component
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "near_eth_errors_total",
			Help: "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)
)
