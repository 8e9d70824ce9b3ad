// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver, and owns the embedded goose
// migrations that define the schema.
package postgres
