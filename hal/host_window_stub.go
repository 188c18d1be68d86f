//go:build !tinygo && !cgo

package hal

import (
	"errors"

	"dial/internal/script"
)

// WindowConfig controls the desktop simulator window.
type WindowConfig struct {
	TPS    int
	Scale  int
	Script []script.Command
}

func RunWindow(_ func(HAL) (func() error, error), _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
