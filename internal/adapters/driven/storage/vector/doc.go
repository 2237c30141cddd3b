// Package vector holds the exact-scan similarity helpers shared by the
// SQLite and in-memory section stores.
package vector
