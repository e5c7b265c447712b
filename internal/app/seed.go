package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"concierge/internal/domain"
)

type Registrar interface {
	Register(ctx context.Context, p domain.Property) error
}

type SeedReport struct {
	Created    int
	Duplicates int
	Failed     int
}

// Seed registers props with at most workers concurrent writes. Duplicates are
// counted and skipped; existing records are never touched.
func Seed(ctx context.Context, r Registrar, props []domain.Property, workers int) (SeedReport, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep SeedReport
	)
	for _, p := range props {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}

		wg.Add(1)
		go func(p domain.Property) {
			defer wg.Done()
			defer sem.Release(1)

			err := r.Register(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				rep.Created++
				log.Info().Str("phone", p.Phone).Msg("seed ok")
			case errors.Is(err, domain.ErrDuplicateKey):
				rep.Duplicates++
				log.Info().Str("phone", p.Phone).Msg("seed skipped: already registered")
			default:
				rep.Failed++
				log.Warn().Str("phone", p.Phone).Err(err).Msg("seed failed")
			}
		}(p)
	}

	wg.Wait()
	return rep, nil
}
