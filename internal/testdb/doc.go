// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests call GetTestDBWithT, which skips unless DATABASE_URL is
// set and migrates the schema once per process, then isolate their writes
// with WithTx, which always rolls back.
package testdb
