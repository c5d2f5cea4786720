//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appcart "github.com/xiebiao/storefront/internal/application/cart"
	appcatalog "github.com/xiebiao/storefront/internal/application/catalog"
	appcoupon "github.com/xiebiao/storefront/internal/application/coupon"
	apporder "github.com/xiebiao/storefront/internal/application/order"
	apppost "github.com/xiebiao/storefront/internal/application/post"
	"github.com/xiebiao/storefront/internal/application/shared"
	appuser "github.com/xiebiao/storefront/internal/application/user"
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
	"github.com/xiebiao/storefront/internal/infrastructure/storage"
	"github.com/xiebiao/storefront/internal/interface/grpcserver"
	httpiface "github.com/xiebiao/storefront/internal/interface/http"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
)

// infrastructureSet 数据库、Redis、存储、网关、消息
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	redis.NewKeys,
	storage.NewLocalStore,
	provideGateway,
	provideOrderEvents,
	wire.Bind(new(product.ImageStore), new(*storage.LocalStore)),
	wire.Bind(new(payment.Gateway), new(*infrapayment.TossClient)),
	wire.Bind(new(order.EventPublisher), new(*messaging.OrderEvents)),
)

// repositorySet 仓储、缓存、锁
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewCategoryRepository,
	mysql.NewProductRepository,
	mysql.NewCartRepository,
	mysql.NewCouponRepository,
	mysql.NewOrderRepository,
	mysql.NewTemporaryOrderRepository,
	mysql.NewSequenceRepository,
	mysql.NewPostRepository,
	mysql.NewTxManager,
	wire.Bind(new(shared.TxManager), new(*mysql.TxManager)),

	redis.NewSessionStore,
	redis.NewPaymentLocker,
	provideProductCache,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	wire.Bind(new(payment.Locker), new(*redis.PaymentLocker)),
	wire.Bind(new(product.Cache), new(*redis.ProductCache)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUpdateAddressUseCase,

	appcatalog.NewListProductsUseCase,
	appcatalog.NewGetProductUseCase,
	appcatalog.NewListCategoriesUseCase,
	appcatalog.NewCreateProductUseCase,
	appcatalog.NewDeleteProductUseCase,

	apppost.NewListPostsUseCase,
	apppost.NewGetPostUseCase,

	appcart.NewGetCartUseCase,
	appcart.NewAddToCartUseCase,
	appcart.NewUpdateQuantityUseCase,
	appcart.NewRemoveItemsUseCase,

	appcoupon.NewValidateCouponUseCase,
	provideOrderIDGenerator,
	provideCheckoutUseCase,
	provideConfirmPaymentUseCase,
	provideFailPaymentUseCase,

	apporder.NewListOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewRequestCancelUseCase,
	apporder.NewAdminListOrdersUseCase,
	apporder.NewChangeStatusUseCase,
	apporder.NewUpdateTrackingUseCase,
	provideSweepStagingUseCase,
)

// interfaceSet HTTP、gRPC、定时任务
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,

	handler.NewUserHandler,
	handler.NewCatalogHandler,
	handler.NewPostHandler,
	handler.NewCartHandler,
	handler.NewCheckoutHandler,
	handler.NewPaymentHandler,
	handler.NewOrderHandler,
	handler.NewAdminHandler,
	handler.NewFileHandler,
	wire.Struct(new(httpiface.Handlers), "*"),
	httpiface.NewRouter,

	provideHealthChecks,
	grpcserver.NewServer,

	scheduler.New,
	wire.Bind(new(scheduler.Sweeper), new(*apporder.SweepStagingUseCase)),
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的逆序关闭MQ、Redis、MySQL
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
