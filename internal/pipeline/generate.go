package pipeline

import (
	"context"
	"fmt"
)

// Store persists a generated artifact under a fresh unique name.
type Store interface {
	WriteNew(ctx context.Context, ext string, data []byte) (string, error)
}

// Invoker calls the image model once and stores the result.
type Invoker struct {
	images ImageModel
	store  Store
	ext    string
}

func NewInvoker(images ImageModel, store Store, ext string) *Invoker {
	if ext == "" {
		ext = DefaultOutputExt
	}
	return &Invoker{images: images, store: store, ext: ext}
}

// Generate returns the stored artifact name. Nothing is written when the
// model call fails.
func (g *Invoker) Generate(ctx context.Context, prompt, size string) (string, error) {
	data, err := g.images.GenerateImage(ctx, prompt, size)
	if err != nil {
		return "", err
	}
	name, err := g.store.WriteNew(ctx, g.ext, data)
	if err != nil {
		return "", fmt.Errorf("store generated image: %w", err)
	}
	return name, nil
}
