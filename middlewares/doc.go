// Package middlewares provides net/http middleware used by the panel's
// router.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing an incoming
// X-Request-ID (or X-Correlation-ID) header when it is well formed and generating a
// UUID otherwise. RequestIDExtractor adds it to every log record:
//
//	log := logger.New(logger.Config{}, middlewares.RequestIDExtractor())
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover turns panics into *PanicError values handed to a callback, so the
// caller decides how the failure is reported:
//
//	r.Use(middlewares.Recover(log, func(w http.ResponseWriter, r *http.Request, err error) {
//	    http.Error(w, "internal error", http.StatusInternalServerError)
//	}))
package middlewares
