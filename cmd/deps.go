package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/mathdrill/internal/logger"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/review"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// deps holds everything a command needs, built from cfg.
type deps struct {
	log     *logger.Logger
	st      *store.Store // nil in memory mode
	reviews *review.Store
	service *session.Service
	seed    uint64
}

// openDeps opens the store and wires the review pool, synthesizer and
// session service.
func openDeps() (*deps, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	d := &deps{log: log}
	var repo store.ReviewRepo
	if cfg.Memory {
		repo = store.NewMemoryReviewRepo()
	} else {
		dbPath, err := resolveDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.st = st
		repo = st.ReviewRepo()
		log.Debug("opened review store", "path", dbPath)
	}

	d.reviews = review.NewStore(repo, log.With("component", "review"),
		review.WithMasteryThreshold(cfg.MasteryThreshold))

	d.seed = cfg.Seed
	if d.seed == 0 {
		d.seed = rand.Uint64()
	}
	synth := problemgen.NewSeeded(d.seed, problemgen.DefaultConfig())
	builder := session.NewBuilder(d.reviews, synth,
		rand.New(rand.NewPCG(d.seed, d.seed+1)),
		session.WithReviewRatio(cfg.ReviewRatio),
		session.WithLogger(log.With("component", "session")),
	)
	d.service = session.NewService(builder, d.reviews)
	return d, nil
}

func (d *deps) Close() {
	if d.st != nil {
		if err := d.st.Close(); err != nil {
			d.log.Warn("close store", "error", err)
		}
	}
	d.log.Sync()
}
