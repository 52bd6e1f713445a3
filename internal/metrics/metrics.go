package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vault_ops_total", Help: "Vault operations executed, by operation and outcome"},
		[]string{"op", "outcome"},
	)
	FeeUnitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vault_fee_units_total", Help: "Fee units collected, by kind (input_asset, admin_lamports)"},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(OpsTotal, FeeUnitsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{ Addr: addr, Handler: mux }
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
