// Package metrics exposes Prometheus instrumentation for the list view
// pipeline.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages
const (
	StageFilter = "filter"
	StageSort   = "sort"
	StageWindow = "window"
)

var (
	Recomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderdesk_pipeline_recomputes_total",
		Help: "The total number of pipeline stage recomputations",
	}, []string{"stage"})
	MemoHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderdesk_pipeline_memo_hits_total",
		Help: "The total number of pipeline stage results served from cache",
	}, []string{"stage"})
	SearchCommits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_search_commits_total",
		Help: "The total number of debounced search terms applied",
	})
	StoreReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_store_reloads_total",
		Help: "The total number of order store reloads",
	})
	LoadedOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderdesk_orders_loaded",
		Help: "The number of orders held by the view",
	})
	FilteredOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderdesk_orders_filtered",
		Help: "The number of orders passing the active filter",
	})
	SelectedOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderdesk_orders_selected",
		Help: "The number of selected orders",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
