// Package session keeps the games running in one process.
//
// Manager stores sessions in memory, keyed by a short case-insensitive ID
// taken from a random UUID. Each session owns its own engine, built with the
// manager's challenge source and logger. Sessions live until they are
// deleted, expire through CleanupExpiredSessions or RunCleanup, or the
// process exits; nothing is written to disk.
package session
