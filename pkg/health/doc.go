// Package health serves liveness and readiness probes for the panel.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "db": db.Healthcheck(conn),
//	}, health.WithLogger(log)))
//
// Readiness runs every check in parallel under a shared timeout. Responses
// are plain text ("OK" / "Service Unavailable") unless the client asks for
// JSON with ?format=json or an application/json Accept header:
//
//	{"status":"unhealthy","checks":{"db":{"status":"unhealthy","error":"..."}}}
package health
