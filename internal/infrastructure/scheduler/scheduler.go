package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// Sweeper 过期临时订单清理
type Sweeper interface {
	Execute(ctx context.Context) (int64, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler 后台定时任务
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
}

// New 创建定时任务并注册临时订单清理
// cron表达式非法时返回错误，避免带着错误配置启动
func New(cfg *config.Config, sweeper Sweeper) (*Scheduler, error) {
	logger := cronLogger{l: zap.S().Named("cron")}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Server.Location()),
			cron.WithParser(cronParser),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		sweeper: sweeper,
		timeout: time.Minute,
	}

	if _, err := s.cron.AddFunc(cfg.Checkout.SweepSpec, s.sweep); err != nil {
		return nil, fmt.Errorf("注册临时订单清理任务失败(%s): %w", cfg.Checkout.SweepSpec, err)
	}
	return s, nil
}

// Start 启动(非阻塞)
func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("定时任务已启动", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		zap.L().Warn("等待定时任务结束超时")
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.sweeper.Execute(ctx)
	if err != nil {
		zap.L().Error("清理过期临时订单失败", zap.Int64("deleted", n), zap.Error(err))
	}
}

// cronLogger 将cron内部日志转到zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
