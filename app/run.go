package app

import (
	"context"
	"fmt"
	"log/slog"

	"dial/hal"
	"dial/internal/config"
)

// Run is the firmware entrypoint: it wires h with the default config and
// loops forever. A setup error, a fatal frame error or a panic is logged,
// drawn as a fault screen and halts the board.
func Run(h hal.HAL) {
	log := slog.New(slog.NewTextHandler(hal.LineWriter(h.Logger()), &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(h, log); err != nil {
		log.Error("halted", "err", err)
		if ferr := drawFault(h.Display(), err); ferr != nil {
			log.Error("fault screen", "err", ferr)
		}
	}
	select {}
}

func run(h hal.HAL, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	a, err := New(h, config.Default(), log, Options{})
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}
