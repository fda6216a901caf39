package out

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CronScheduler runs the poll job on a fixed interval.
type CronScheduler struct {
	cron *cron.Cron
}

func NewCronScheduler() *CronScheduler {
	return &CronScheduler{cron: cron.New()}
}

func (s *CronScheduler) Every(interval time.Duration, job func()) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), job)
	return err
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

func (s *CronScheduler) Stop() {
	s.cron.Stop()
}
