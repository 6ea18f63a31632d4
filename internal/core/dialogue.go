package core

import "context"

// Dialogue is the conversation entry point shared by every transport.
type Dialogue interface {
	Turn(ctx context.Context, userID, message string) (Turn, error)
}
