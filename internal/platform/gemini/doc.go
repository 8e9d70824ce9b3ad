// Package gemini implements generation.ExamDraftGenerator on top of Google's
// Gemini API via the google.golang.org/genai client.
//
// The prompt is rendered from an embedded template and the model is asked for
// a JSON response. The answer is decoded into a service.ExamSpec and checked
// with the same domain rules as a hand-written exam before it is returned.
// Transient API failures are retried with exponential backoff and jitter.
package gemini
