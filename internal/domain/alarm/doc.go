// Package alarm defines the alarm domain model shared by the scheduler,
// the persistence API client and the dashboard HTTP API, along with
// parsing and validation helpers for alarm definitions.
package alarm
