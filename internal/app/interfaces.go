package app

import (
	"github.com/robfig/cron/v3"

	"github.com/talkincode/productform/config"
	"github.com/talkincode/productform/internal/imagehost"
	"github.com/talkincode/productform/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the in-memory form session store
type StoreProvider interface {
	Store() *session.Store
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	ConfigProvider
	StoreProvider
	SchedulerProvider

	// Allowlist returns the remote image allowlist
	Allowlist() *imagehost.Allowlist
	// SweepSessions evicts idle form sessions and returns how many were removed
	SweepSessions() int
}
