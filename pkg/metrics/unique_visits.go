package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type uniqueVisits struct {
	counter       prometheus.Gauge
	visitorsCache map[string]struct{}
	mu            sync.RWMutex
}

const uniqueClientsPerDay = "unique_clients_per_day"

var totalUniqueClientsPerDayMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: firesafe,
		Name:      uniqueClientsPerDay,
		Help:      "number of distinct clients requesting estimates since the last daily reset",
	},
)

// UniqueClientsPerDay is reset by the api server once a day.
var UniqueClientsPerDay = &uniqueVisits{
	counter:       totalUniqueClientsPerDayMetric,
	visitorsCache: make(map[string]struct{}),
}

func (v *uniqueVisits) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.visitorsCache = make(map[string]struct{})
	v.counter.Set(0)
}

func (v *uniqueVisits) IncreaseTotalUniqueVisit(visitor string) {
	if visitor == "" {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.visitorsCache[visitor]; exists {
		return
	}

	v.visitorsCache[visitor] = struct{}{}
	v.counter.Inc()
}

func (v *uniqueVisits) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.visitorsCache)
}

// Track records the visitor returned by key for every request passing through.
func (v *uniqueVisits) Track(key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v.IncreaseTotalUniqueVisit(key(r))
			next.ServeHTTP(w, r)
		})
	}
}
