package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"accountability-backend/config"
	"accountability-backend/internal/engine"
	"accountability-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store        store.Store
	webpush      *webpush.Options
	thresholds   engine.WarningThresholds
	weekStartDay time.Weekday
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, engineCfg config.EngineConfig) *Handler {
	return &Handler{
		store:        s,
		webpush:      webpushOptions,
		thresholds:   thresholdsFromConfig(engineCfg),
		weekStartDay: time.Weekday(engineCfg.WeekStartDay),
	}
}

// thresholdsFromConfig overlays configured rule boundaries on the
// engine defaults. Zero config values keep the default.
func thresholdsFromConfig(cfg config.EngineConfig) engine.WarningThresholds {
	th := engine.DefaultWarningThresholds()
	if cfg.ConsecutiveMisses > 0 {
		th.ConsecutiveMisses = cfg.ConsecutiveMisses
	}
	if cfg.AttendanceWindowDays > 0 {
		th.AttendanceWindowDays = cfg.AttendanceWindowDays
	}
	if cfg.AttendanceMinRecords > 0 {
		th.AttendanceMinRecords = cfg.AttendanceMinRecords
	}
	if cfg.AttendanceMinRate > 0 {
		th.AttendanceMinRate = cfg.AttendanceMinRate
	}
	if cfg.RejectionWindow > 0 {
		th.RejectionWindow = cfg.RejectionWindow
	}
	if cfg.RejectionCount > 0 {
		th.RejectionCount = cfg.RejectionCount
	}
	if cfg.QualityFloor > 0 {
		th.QualityFloor = cfg.QualityFloor
	}
	if cfg.InactivityDays > 0 {
		th.InactivityDays = cfg.InactivityDays
	}
	return th
}
