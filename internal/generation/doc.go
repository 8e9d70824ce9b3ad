// Package generation defines the boundary between the exam authoring flow and
// external language models. An ExamDraftGenerator turns a short request
// (level, topic, section types) into an exam draft in the same shape accepted
// by the exam creation endpoint. Drafts are never persisted here; an admin
// reviews them and submits them through the regular create path.
//
// The Gemini-backed implementation lives in internal/platform/gemini.
package generation
