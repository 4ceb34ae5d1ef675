package memory

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically drops transcripts that have sat idle past a cutoff,
// so a long-running process is not pinned to every session id a caller ever
// invented.
type Sweeper struct {
	cron *cron.Cron
}

func NewSweeper(store *Store, cronSpec string, idleFor time.Duration) (*Sweeper, error) {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		if n := store.SweepIdle(idleFor); n > 0 {
			log.Printf("memory: swept %d idle sessions, %d remaining", n, store.Len())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep cron %q: %w", cronSpec, err)
	}
	return &Sweeper{cron: c}, nil
}

func (s *Sweeper) Start() { s.cron.Start() }
func (s *Sweeper) Stop()  { s.cron.Stop() }
