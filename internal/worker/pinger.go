package worker

import (
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/config"
)

// Pinger periodically GETs the bot's own public URL so free-tier hosts do
// not idle the process out. A missing URL disables it.
type Pinger struct {
	cfg    config.KeepaliveConfig
	logger *zap.Logger
	client *http.Client
	cron   *cron.Cron
}

// NewPinger constructs the keepalive worker.
func NewPinger(cfg config.KeepaliveConfig, logger *zap.Logger) *Pinger {
	return &Pinger{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Start schedules the self-ping. No-op without a configured URL.
func (p *Pinger) Start() error {
	if p.cfg.SelfPingURL == "" {
		return nil
	}

	p.cron = cron.New()
	spec := fmt.Sprintf("@every %dm", p.cfg.PeriodMinutes)
	if _, err := p.cron.AddFunc(spec, p.ping); err != nil {
		return fmt.Errorf("schedule self-ping: %w", err)
	}
	p.cron.Start()
	p.logger.Info("keepalive pinger started", zap.String("url", p.cfg.SelfPingURL))
	return nil
}

// Stop halts the schedule.
func (p *Pinger) Stop() {
	if p.cron != nil {
		<-p.cron.Stop().Done()
	}
}

func (p *Pinger) ping() {
	resp, err := p.client.Get(p.cfg.SelfPingURL)
	if err != nil {
		p.logger.Debug("self-ping failed", zap.Error(err))
		return
	}
	_ = resp.Body.Close()
}
