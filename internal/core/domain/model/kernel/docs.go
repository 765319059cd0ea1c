// Package kernel contains shared value objects used across the domain model.
// Currently this is the UUID identifier type that wraps platform entity ids.
package kernel
