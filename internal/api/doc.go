// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the exam, account and attempt
// services and maps their errors to status codes without leaking internals.
package api
