// Package webhook implements driven.Reporter for Discord-style webhooks.
//
// A ResultSet becomes one or more chat messages posted as JSON
// {"content": ..., "username": ...}. Posts are paced by a RateLimiter
// that combines a token bucket with the limits the endpoint reports.
package webhook
