package models

// Member is a person who owns expenses and makes payments against them.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name, e.g. "Alice".
	// Per-member summaries are keyed by this name.
	Name string

	// CreatedAt is the Unix timestamp when the member was added.
	CreatedAt int64
}
