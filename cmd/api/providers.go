package main

import (
	"context"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcheckout "github.com/xiebiao/storefront/internal/application/checkout"
	apporder "github.com/xiebiao/storefront/internal/application/order"
	apppayment "github.com/xiebiao/storefront/internal/application/payment"
	"github.com/xiebiao/storefront/internal/application/shared"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/coupon"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/payment"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/messaging"
	infrapayment "github.com/xiebiao/storefront/internal/infrastructure/payment"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/infrastructure/scheduler"
	"github.com/xiebiao/storefront/internal/interface/grpcserver"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/mq"
)

// App 进程内需要启动/停止的组件
type App struct {
	Engine    *gin.Engine
	Scheduler *scheduler.Scheduler
	GRPC      *grpcserver.Server
}

func newApp(engine *gin.Engine, sched *scheduler.Scheduler, grpcServer *grpcserver.Server) *App {
	return &App{Engine: engine, Scheduler: sched, GRPC: grpcServer}
}

// provideDB 创建MySQL连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis 创建Redis连接
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
// jwt.NewManager只需要JWT相关的配置，Wire无法自动从Config中提取
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideProductCache(client *goredis.Client, keys redis.Keys, cfg *config.Config) *redis.ProductCache {
	return redis.NewProductCache(client, keys, cfg.Redis.ProductCacheTTL)
}

func provideGateway(cfg *config.Config) *infrapayment.TossClient {
	return infrapayment.NewTossClient(cfg.Payment)
}

// provideOrderEvents mq.enabled=false时不连接RabbitMQ，事件只写日志
func provideOrderEvents(cfg *config.Config) (*messaging.OrderEvents, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NewOrderEvents(nil), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	zap.L().Info("RabbitMQ连接成功", zap.String("exchange", cfg.MQ.Exchange))
	return messaging.NewOrderEvents(publisher), func() { _ = publisher.Close() }, nil
}

func provideOrderIDGenerator(seq order.SequenceRepository, cfg *config.Config) *appcheckout.OrderIDGenerator {
	return appcheckout.NewOrderIDGenerator(seq, cfg.Server.Location())
}

func provideCheckoutUseCase(
	cartRepo cart.Repository,
	productRepo product.Repository,
	couponRepo coupon.Repository,
	userRepo user.Repository,
	tempRepo order.TemporaryRepository,
	ids *appcheckout.OrderIDGenerator,
	cfg *config.Config,
) *appcheckout.CheckoutUseCase {
	return appcheckout.NewCheckoutUseCase(cartRepo, productRepo, couponRepo, userRepo, tempRepo, ids, cfg.Checkout.StagingTTL)
}

func provideConfirmPaymentUseCase(
	orderRepo order.Repository,
	tempRepo order.TemporaryRepository,
	productRepo product.Repository,
	cartRepo cart.Repository,
	userRepo user.Repository,
	gateway payment.Gateway,
	locker payment.Locker,
	txManager shared.TxManager,
	events order.EventPublisher,
	cfg *config.Config,
) *apppayment.ConfirmPaymentUseCase {
	return apppayment.NewConfirmPaymentUseCase(orderRepo, tempRepo, productRepo, cartRepo, userRepo,
		gateway, locker, txManager, events, cfg.Payment.LockTTL)
}

func provideFailPaymentUseCase(tempRepo order.TemporaryRepository, cfg *config.Config) *apppayment.FailPaymentUseCase {
	return apppayment.NewFailPaymentUseCase(tempRepo, cfg.Storefront.BaseURL)
}

func provideSweepStagingUseCase(tempRepo order.TemporaryRepository, cfg *config.Config) *apporder.SweepStagingUseCase {
	return apporder.NewSweepStagingUseCase(tempRepo, cfg.Checkout.SweepBatch)
}

// provideHealthChecks gRPC健康检查依赖项
func provideHealthChecks(db *gorm.DB, client *goredis.Client) map[string]grpcserver.Check {
	return map[string]grpcserver.Check{
		"mysql": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}
