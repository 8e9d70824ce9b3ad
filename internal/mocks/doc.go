// Package mocks provides function-field test doubles for the service
// interfaces consumed by the HTTP layer. Each mock calls its Fn field when
// set and otherwise returns the configured default values.
package mocks
