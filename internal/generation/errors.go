package generation

import "errors"

// Common errors returned by draft generators.
var (
	// ErrDraftsDisabled is returned when no language model is configured.
	ErrDraftsDisabled = errors.New("exam drafts are disabled")

	// ErrInvalidResponse is returned when the model answer cannot be decoded
	// or does not describe a valid exam.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model refuses the prompt.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned when every retry failed.
	ErrTransientFailure = errors.New("transient error during draft generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
