// Package metrics defines and registers all custom Prometheus metrics for the
// identity API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through registration.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure" (bad credentials or unknown account), or
//     "throttled" (rejected by the login limiter)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RoleMutationsTotal counts role grant/revoke operations.
// Labels:
//   - op: "add" or "remove"
//   - result: "ok" or "error"
var RoleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_mutations_total",
		Help:      "Total number of role mutation operations, by op and result.",
	},
	[]string{"op", "result"},
)

// AuthzDeniedTotal counts requests rejected by the role guard after a valid
// token was presented.
var AuthzDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests denied for missing a required role.",
	},
)

// TokenRejectionsTotal counts bearer tokens rejected before reaching any
// handler (missing, malformed, expired, or bad signature).
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, labelled by reason.",
	},
	[]string{"reason"},
)
