// Package http exposes the dashboard-facing JSON API: the alarm read model
// (definitions, next fire instants, open visual alerts) and the CRUD/toggle
// intents, which are forwarded to the persistence API and re-sync the
// scheduler on success.
package http
