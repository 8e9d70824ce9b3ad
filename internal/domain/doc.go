// Package domain contains the exam content model (exams, sections,
// questions), users, and exam attempts, together with the closed value
// sets and invariants they must satisfy before reaching storage.
package domain
