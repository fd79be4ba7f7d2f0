// Package alarms provides the client for the remote alarm persistence API.
// The API is the authoritative owner of alarm records; the scheduler only
// reads snapshots and requests targeted updates (mark-triggered, enable
// toggles, CRUD forwarded from the dashboard).
package alarms
