package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Currently connected websocket clients",
		},
	)
	RoomsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "game_rooms_active",
			Help: "Rooms currently held in the session store",
		},
	)
	WagersConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wagers_confirmed_total",
			Help: "Escrow transactions confirmed and applied to a room",
		},
		[]string{"game_type"},
	)
	EscrowFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_failures_total",
			Help: "Wager attempts that failed before any room mutation",
		},
		[]string{"reason"},
	)
	GamesResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "games_resolved_total",
			Help: "Rooms that reached the finished state",
		},
		[]string{"game_type"},
	)
)

func init() {
	prometheus.MustRegister(WSConnections)
	prometheus.MustRegister(RoomsActive)
	prometheus.MustRegister(WagersConfirmed)
	prometheus.MustRegister(EscrowFailures)
	prometheus.MustRegister(GamesResolved)
}
