// Package monitoring holds the shared diagnostic logger for the
// library packages. Batch tools log through the stdlib directly; the
// engine and writer packages go through Logf so warnings (degenerate
// layers, failed writes) can be redirected or muted.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to
// log.Printf and may be replaced with SetLogger.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger, which tests use to silence expected warnings.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}
