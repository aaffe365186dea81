// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (duration_ms).
The websocket endpoint is not wrapped; connection lifetimes are logged by the
gateway instead.

# CORS Middleware

Allow the frontend origin to call the HTTP endpoints:

	server := http.Server{
		Handler: middleware.CORS(cfg.FrontendOrigin, mux),
	}

Passing "*" reflects the request origin.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "message")

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Honours X-Forwarded-For and X-Real-IP when running behind a proxy.
*/
package middleware
