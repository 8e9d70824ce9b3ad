// Package service holds the application's use cases: browsing and authoring
// exams, registering and authenticating accounts, and tracking exam attempts.
//
// Services depend on the store interfaces only. Operations that write more
// than one row run inside store.RunInTransaction.
package service
