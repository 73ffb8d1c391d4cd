package inventory

import (
	"context"
	"errors"
	"fmt"
)

// SagaStep paso de una operación multi-unidad con su compensación declarada.
// Compensate puede ser nil si el paso no requiere reverso.
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga ejecuta pasos en orden y, ante el fallo de uno, corre las compensaciones
// de los pasos ya aplicados en orden inverso. Reemplaza el rollback manual
// duplicado en cada ruta de código por una definición declarativa por operación.
type Saga struct {
	steps []SagaStep
}

// NewSaga construye una saga vacía.
func NewSaga() *Saga {
	return &Saga{}
}

// Add agrega un paso al final de la saga.
func (s *Saga) Add(step SagaStep) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute corre los pasos en orden. Devuelve cuántos pasos alcanzaron a aplicarse
// antes del fallo (0 = el primer paso falló y no hubo nada que compensar) y el
// error del paso fallido. Las compensaciones corren de forma síncrona en orden
// inverso; si una compensación también falla, su error se adjunta con
// errors.Join: ese caso deja estado parcial y debe quedar visible para el caller.
func (s *Saga) Execute(ctx context.Context) (int, error) {
	var applied []SagaStep
	for _, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			stepErr := fmt.Errorf("paso %q: %w", step.Name, err)
			for i := len(applied) - 1; i >= 0; i-- {
				if applied[i].Compensate == nil {
					continue
				}
				if cErr := applied[i].Compensate(ctx); cErr != nil {
					stepErr = errors.Join(stepErr,
						fmt.Errorf("compensar %q: %w", applied[i].Name, cErr))
					break
				}
			}
			return len(applied), stepErr
		}
		applied = append(applied, step)
	}
	return len(applied), nil
}

// Len cantidad de pasos declarados.
func (s *Saga) Len() int {
	return len(s.steps)
}
