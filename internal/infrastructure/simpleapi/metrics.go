package simpleapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// fallbacksPermisivos cuenta las anulaciones path-style aceptadas por el
// fallback permisivo (200/202 sin JSON ni palabra clave). Permite a operaciones
// detectar cuándo se está confiando en ese default.
var fallbacksPermisivos = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bhe_anulacion_fallback_permisivo_total",
	Help: "Anulaciones aceptadas por el fallback permisivo de respuesta no reconocida.",
})
