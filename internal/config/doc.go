// Package config defines the scheduler server settings and provides helpers
// to load, validate and save them in YAML format.
//
// The Config type holds the persistence API base URL, the dashboard listen
// address, the refresh interval and the per-call timeout.
package config
