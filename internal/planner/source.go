package planner

import (
	"context"
	"fmt"
	"os"
)

// TextSource supplies free-form model output for a prompt. Implementations
// must honour ctx cancellation.
type TextSource interface {
	FetchText(ctx context.Context, prompt string) (string, error)
}

// StaticTextSource returns fixed text regardless of the prompt
type StaticTextSource struct {
	Text string
}

// FetchText returns the configured text
func (s StaticTextSource) FetchText(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Text, nil
}

// FileTextSource reads previously captured model output from a file
type FileTextSource struct {
	Path string
}

// FetchText reads the file; the prompt is ignored
func (s FileTextSource) FetchText(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read model output %s: %w", s.Path, err)
	}
	return string(data), nil
}

// TextSourceFunc adapts a function to TextSource
type TextSourceFunc func(ctx context.Context, prompt string) (string, error)

// FetchText calls f
func (f TextSourceFunc) FetchText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
