// Package memory provides an in-memory ConfigStore used by tests and by
// callers that run without a config file.
package memory
