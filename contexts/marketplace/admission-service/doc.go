// Package admissionservice gates listing creation inside the marketplace
// context.
//
// The module composes the posting-schedule gate (weekday time windows) and
// the per-user daily quota gate into one admit/deny decision, owns the admin
// surface for both configurations, and runs the daily counter retention
// sweep through a periodic worker. Business rules stay in the
// application layer; storage atomicity (the upsert-increment on counters)
// lives behind ports.
package admissionservice
