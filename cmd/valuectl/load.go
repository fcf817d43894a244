package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/valuekit/bridge"
	"github.com/joshuapare/valuekit/pkg/document"
)

// loadFile builds the document at path into a new container. The caller
// closes the container.
func loadFile(path string) (*bridge.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	c, err := bridge.NewContainer(cfg.Container)
	if err != nil {
		return nil, err
	}
	if err := document.Load(c, data, cfg.Document); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return c, nil
}
