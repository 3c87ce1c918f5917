package sales

import (
	"context"
	"errors"
)

// compensation deshace un paso ya confirmado del checkout.
type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga pila de compensaciones; rollback las ejecuta en orden inverso.
type saga struct {
	done []compensation
}

func (s *saga) push(name string, undo func(ctx context.Context) error) {
	s.done = append(s.done, compensation{name: name, undo: undo})
}

// rollback ejecuta todas las compensaciones aunque alguna falle.
// Corre desligado de la cancelación de ctx: una petición abortada igual debe devolver el stock.
func (s *saga) rollback(ctx context.Context, onStep func(name string, err error)) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i := len(s.done) - 1; i >= 0; i-- {
		c := s.done[i]
		err := c.undo(ctx)
		if onStep != nil {
			onStep(c.name, err)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	s.done = nil
	return errors.Join(errs...)
}
