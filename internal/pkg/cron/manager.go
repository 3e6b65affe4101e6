package cron

import (
	"XhsStudio/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine    *cron.Cron
	sweepSpec string
	sweepJob  *job.WorkspaceSweepJob
}

func NewCronManager(sweepSpec string, sweepJob *job.WorkspaceSweepJob) *Manager {
	return &Manager{
		engine:    cron.New(cron.WithSeconds()),
		sweepSpec: sweepSpec,
		sweepJob:  sweepJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.sweepSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.sweepJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
