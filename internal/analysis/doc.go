// Package analysis implements the fabric capacity analysis engine: it
// normalizes raw inventory dumps into a class-keyed index, maintains a
// content-addressed differential cache per fabric, and derives capacity
// summaries, headroom against platform scalability limits, spine uplink
// projections and prioritized insights from the cached index.
//
// Every calculator in this package is a pure function of an immutable
// NormalizedIndex snapshot plus fabric configuration. The differential
// cache is the only stateful component; see Manager.
package analysis
