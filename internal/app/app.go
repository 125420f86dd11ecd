package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/productform/config"
	"github.com/talkincode/productform/internal/imagehost"
	"github.com/talkincode/productform/internal/session"
	"github.com/talkincode/productform/pkg/metrics"
)

type Application struct {
	appConfig *config.AppConfig
	bus       EventBus.Bus
	store     *session.Store
	allowlist *imagehost.Allowlist
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() *session.Store {
	return a.store
}

func (a *Application) Allowlist() *imagehost.Allowlist {
	return a.allowlist
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	logger, err := newLogger(cfg.Logger)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	if err := metrics.InitMetrics(); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.bus = EventBus.New()
	a.store, err = session.NewStore(cfg.Session.NodeID, time.Duration(cfg.Session.IdleTTL)*time.Second, a.bus)
	if err != nil {
		return errors.Wrap(err, "init session store")
	}
	if err := a.bus.Subscribe(session.TopicFormChanged, onFormChanged); err != nil {
		return errors.Wrap(err, "subscribe form changes")
	}

	a.allowlist = imagehost.NewAllowlist(cfg.Images.RemotePatterns)
	zap.S().Infof("Image allowlist loaded with %d remote patterns", len(cfg.Images.RemotePatterns))

	a.initJob()
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if !cfg.FileEnable {
		logger, err := zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, errors.Wrap(err, "build logger")
		}
		return logger, nil
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   false,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(lumberJackLogger),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

func onFormChanged(evt session.ChangeEvent) {
	metrics.IncAction(evt.Action)
	zap.L().Debug("form changed",
		zap.String("session_id", evt.SessionID),
		zap.String("action", evt.Action),
		zap.Int("days", evt.Days))
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	_ = zap.L().Sync()
}
