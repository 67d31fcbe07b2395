package ai

import "context"

// TextGenerator produces a completion for a message under a system
// instruction. Implementations are expected to be safe for concurrent use.
type TextGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}
