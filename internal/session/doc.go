// Package session persists triage sessions in SQLite and drives the per-item
// decision state machine. A session is created from one diff run and survives
// process restarts; every decision is written through before the next item is
// offered.
package session
