// Package http provides the HTTP service implementation.
//
// The HTTP server exposes endpoints for:
//   - The static greeting used as a load test target
//   - Health checks
//
// Every other path and method falls through to the router's default
// 404 response. Prometheus metrics are served from a separate
// listener, see pkg/api/metrics.
package http
