// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/material-logger/internal/container"
	"github.com/pdiddy/material-logger/pkg/types"
)

// ContainerTranscriber pipes audio through a local whisper image. The image
// reads the audio on stdin and writes the transcript to stdout. It depends on
// a container.Runtime (docker or podman) injected at construction time.
type ContainerTranscriber struct {
	runtime  container.Runtime
	image    string
	language string
}

// NewContainerTranscriber verifies that image exists in rt before returning.
func NewContainerTranscriber(rt container.Runtime, image, language string) (*ContainerTranscriber, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("whisper image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerTranscriber{runtime: rt, image: image, language: language}, nil
}

func (c *ContainerTranscriber) Name() string { return types.BackendContainer }

// Transcribe runs the image once for audioPath.
func (c *ContainerTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio: %w", err)
	}
	defer f.Close()

	var args []string
	if c.language != "" {
		args = []string{"--language", c.language}
	}

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, args, f, &out); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &BackendError{Backend: c.Name(), Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	return cleanTranscript(c.Name(), out.String())
}
