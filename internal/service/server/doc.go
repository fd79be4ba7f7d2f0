// Package server assembles the homeboard-server process: configuration,
// the persistence API client, the alarm scheduler and the dashboard HTTP
// API, with graceful shutdown on signal.
package server
