// Package api exposes a read-only HTTP surface over the live game state:
// the full snapshot, a compact player list, and a health check, plus the
// /ws observer feed. It exists for the table-side control panel and
// debugging; game mutation happens only through the TCP protocol.
package api
