package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tgrelay/pkg/channel"
)

// Run launches every unit concurrently and blocks until all of them have
// exited. Units share no memory; a failing unit does not tear down the
// others, its error is joined into the return value once everything has
// stopped.
func Run(ctx context.Context, log *slog.Logger, units ...channel.Unit) error {
	if len(units) == 0 {
		return errors.New("at least one unit is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "supervisor")

	var wg sync.WaitGroup
	errCh := make(chan error, len(units))

	for _, unit := range units {
		wg.Add(1)
		log.Info("Starting unit", "unit", unit.Name())

		go func(unit channel.Unit) {
			defer wg.Done()

			err := unit.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Unit exited with error", "unit", unit.Name(), "error", err)
				errCh <- fmt.Errorf("run %s unit: %w", unit.Name(), err)
				return
			}

			log.Info("Unit exited", "unit", unit.Name())
		}(unit)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
