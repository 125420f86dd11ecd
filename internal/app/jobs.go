package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talkincode/productform/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err := a.sched.AddFunc("@every 1m", a.SchedSessionSweepTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSessionSweepTask evicts idle form sessions
func (a *Application) SchedSessionSweepTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	a.SweepSessions()
}

// SweepSessions evicts idle form sessions and refreshes the session gauge
func (a *Application) SweepSessions() int {
	removed := a.store.Sweep()
	metrics.AddEvicted(removed)
	metrics.SetSessions(a.store.Len())
	if removed > 0 {
		zap.L().Info("evicted idle form sessions", zap.Int("count", removed))
	}
	return removed
}
