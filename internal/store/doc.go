// Package store defines the persistence contracts for users, exams and
// exam attempts, plus the transaction helper shared by every implementation.
// Services depend on these interfaces; internal/platform/postgres provides
// the PostgreSQL implementations.
package store
