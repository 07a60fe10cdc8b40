package tiling

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/gpattern/pkg/geo"
)

// divideWork returns the contiguous slice [start, end) of n items owned by
// part out of parts.
func divideWork(n, part, parts int) (start, end int) {
	return part * n / parts, (part + 1) * n / parts
}

// runEager projects every task and merges the tiles into one container.
//
// Tasks are split into one contiguous range per worker. When there are no
// more tasks than workers the tiles are cooked on the calling goroutine.
// Each worker owns a single scratch container that is refilled for every
// tile; only the merge into the output holds the lock.
func (e *Engine) runEager(j *job, tasks []Task) (*geo.Detail, ProjectStats, error) {
	out := geo.NewDetail()
	var stats ProjectStats

	workers := e.workers()
	if len(tasks) <= workers {
		e.log.Debug("cooking tiles inline",
			zap.String("cook_id", j.id),
			zap.Int("tiles", len(tasks)))

		scratch := geo.NewDetail()
		for _, t := range tasks {
			s, err := j.renderTile(scratch, t.Index)
			if err != nil {
				return nil, stats, err
			}
			out.Merge(scratch)
			stats.Add(s)
		}
		return out, stats, nil
	}

	e.log.Debug("cooking tiles in parallel",
		zap.String("cook_id", j.id),
		zap.Int("tiles", len(tasks)),
		zap.Int("workers", workers))

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for part := 0; part < workers; part++ {
		start, end := divideWork(len(tasks), part, workers)
		wg.Add(1)
		go func(tasks []Task) {
			defer wg.Done()

			scratch := geo.NewDetail()
			var local ProjectStats
			for _, t := range tasks {
				s, err := j.renderTile(scratch, t.Index)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return
				}
				local.Add(s)

				mu.Lock()
				out.Merge(scratch)
				mu.Unlock()
			}

			mu.Lock()
			stats.Add(local)
			mu.Unlock()
		}(tasks[start:end])
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, stats, errors.Join(errs...)
	}
	return out, stats, nil
}
