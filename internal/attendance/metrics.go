package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scansTotal counts scan outcomes: entry, exit, rejected, invalid,
// unauthorized, duplicate, error.
var scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campusgate_scans_total",
	Help: "Gate scan outcomes by result.",
}, []string{"result"})
