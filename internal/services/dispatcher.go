package services

import (
	"context"
	"sync"
	"time"

	"github.com/culturallm/culturallm-backend/internal/logger"
)

// Dispatcher runs background work detached from the request that submitted
// it. Submit returns immediately; the task keeps running after the request's
// response is written, on the dispatcher's own context. Task failures are the
// task's problem to log, they never surface to any caller.
type Dispatcher interface {
	Submit(name string, task func(ctx context.Context))
	// Close waits for in-flight tasks. It does not cancel them: an evaluation
	// pipeline that has started is allowed to finish.
	Close()
}

type dispatcher struct {
	log  *logger.Logger
	base context.Context
	wg   sync.WaitGroup
}

func NewDispatcher(baseLog *logger.Logger) Dispatcher {
	return &dispatcher{
		log:  baseLog.With("service", "Dispatcher"),
		base: context.Background(),
	}
}

func (d *dispatcher) Submit(name string, task func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("Background task panicked", "task", name, "panic", r)
			}
		}()
		start := time.Now()
		d.log.Debug("Background task starting", "task", name)
		task(d.base)
		d.log.Debug("Background task finished", "task", name, "took", time.Since(start).String())
	}()
}

func (d *dispatcher) Close() {
	d.wg.Wait()
}
