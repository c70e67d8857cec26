// metrics — счетчики Prometheus для исходов аутентификации.
// Сами метрики отдаются promhttp-хендлером на /metrics (см. cmd).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Возможные значения метки result.
const (
	ResultOK                 = "ok"
	ResultInvalidCredentials = "invalid_credentials"
	ResultRateLimited        = "rate_limited"
	ResultInvalidToken       = "invalid_token"
	ResultError              = "error"
)

var (
	// LoginAttempts — попытки входа по исходам.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo_service",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"result"})

	// RefreshAttempts — попытки обновления access-токена по исходам.
	RefreshAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo_service",
		Subsystem: "auth",
		Name:      "refresh_attempts_total",
		Help:      "Token refresh attempts by outcome.",
	}, []string{"result"})
)
