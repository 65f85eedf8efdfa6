package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册并启动计数回算任务，两项均未配置时不启动引擎
func InitCron(mgr *Manager) error {
	if mgr.cfg.DirtyRecount == "" && mgr.cfg.FullRecount == "" {
		log.Warn("counter recount jobs disabled, cron not started")
		return nil
	}
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	log.Info("counter recount jobs registered", "dirty_recount", mgr.cfg.DirtyRecount, "full_recount", mgr.cfg.FullRecount)
	mgr.Start()
	return nil
}
