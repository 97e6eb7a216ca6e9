package store

import "context"

// Store persists dares and submissions. Create methods assign the next
// sequence number (previous maximum + 1, starting at 1) and the timestamp.
type Store interface {
	CreateDare(ctx context.Context, d *Dare) error
	DareByNumber(ctx context.Context, number int64) (*Dare, error)
	CreateSubmission(ctx context.Context, s *Submission) error
	SubmissionsForDare(ctx context.Context, dareNumber int64) ([]Submission, error)
	Close(ctx context.Context) error
}
