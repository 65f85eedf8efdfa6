package cron

import (
	"Hearth/internal/api/config"
	"Hearth/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	cfg             config.CronConfig
	dirtyRecountJob *job.DirtyRecountJob
	fullRecountJob  *job.FullRecountJob
}

func NewCronManager(cfg config.CronConfig, dirtyRecountJob *job.DirtyRecountJob, fullRecountJob *job.FullRecountJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		cfg:             cfg,
		dirtyRecountJob: dirtyRecountJob,
		fullRecountJob:  fullRecountJob,
	}
}

// RegisterJobs 注册定时任务，表达式为空时跳过对应任务
func (s *Manager) RegisterJobs() error {
	if s.cfg.DirtyRecount != "" {
		if _, err := s.engine.AddJob(s.cfg.DirtyRecount, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.dirtyRecountJob)); err != nil {
			return err
		}
	}
	if s.cfg.FullRecount != "" {
		if _, err := s.engine.AddJob(s.cfg.FullRecount, s.fullRecountJob); err != nil {
			return err
		}
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
