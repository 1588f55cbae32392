package infra

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/pkg/ui"
)

const quitWait = 2 * time.Second

// TUIReporter forwards results into the Bubble Tea dashboard it owns.
type TUIReporter struct {
	program *tea.Program
	log     logger.LoggerInterface

	once sync.Once
	done chan struct{}
	err  error
}

// NewTUIReporter creates a TUIReporter driving ctrl.
func NewTUIReporter(ctrl ui.Controller, log logger.LoggerInterface, opts ...tea.ProgramOption) *TUIReporter {
	return &TUIReporter{
		program: ui.NewProgram(ctrl, opts...),
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background.
func (r *TUIReporter) Start(ctx context.Context) error {
	r.once.Do(func() {
		go func() {
			defer close(r.done)
			if _, err := r.program.Run(); err != nil {
				r.err = err
				r.log.Error(ctx, "tui exited with error", "error", err)
			}
		}()
	})
	return nil
}

// Done is closed when the user quits the dashboard.
func (r *TUIReporter) Done() <-chan struct{} {
	return r.done
}

// Publish sends the result to the program. It returns once the program
// accepted it or has exited.
func (r *TUIReporter) Publish(res domain.CycleResult) {
	r.program.Send(ui.CycleMsg{Result: res})
}

// Stop quits the program and waits briefly for the terminal to be restored.
func (r *TUIReporter) Stop() error {
	r.program.Quit()
	select {
	case <-r.done:
		return r.err
	case <-time.After(quitWait):
		r.program.Kill()
		return nil
	}
}
