// Package monitor implements periodic runtime sampling.
//
// The monitor runs a single goroutine that:
//   - Samples goroutine count and heap allocation on a fixed interval
//   - Logs each sample through the service logger
//   - Publishes the sample to the metrics recorder
//
// Sampling is pure observation and never touches request handling.
package monitor
