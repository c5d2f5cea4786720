package http

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User     *handler.UserHandler
	Catalog  *handler.CatalogHandler
	Post     *handler.PostHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Order    *handler.OrderHandler
	Admin    *handler.AdminHandler
	File     *handler.FileHandler
}

// NewRouter 创建Gin引擎并注册全部路由
func NewRouter(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}
	registerTagNames()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.CORS(cfg.Storefront.BaseURL),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.GET("/files/*filepath", h.File.Serve)

	v1 := r.Group("/api/v1")
	{
		// 用户
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
		}
		me := users.Group("", auth.RequireAuth())
		{
			me.POST("/logout", h.User.Logout)
			me.GET("/me", h.User.Me)
			me.PUT("/me/address", h.User.UpdateAddress)
		}

		// 商品、公告（公开）
		v1.GET("/categories", h.Catalog.ListCategories)
		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id", h.Catalog.GetProduct)
		v1.GET("/posts", h.Post.ListPosts)
		v1.GET("/posts/:id", h.Post.GetPost)

		authorized := v1.Group("", auth.RequireAuth())
		{
			authorized.GET("/cart", h.Cart.GetCart)
			authorized.POST("/cart/items", h.Cart.AddItem)
			authorized.PATCH("/cart/items/:id", h.Cart.UpdateQuantity)
			authorized.DELETE("/cart/items", h.Cart.RemoveItems)

			authorized.POST("/coupons/validate", h.Checkout.ValidateCoupon)
			authorized.POST("/checkout", h.Checkout.Checkout)

			authorized.GET("/payments/success", h.Payment.Success)
			authorized.GET("/payments/fail", h.Payment.Fail)

			authorized.GET("/orders", h.Order.ListOrders)
			authorized.GET("/orders/:id", h.Order.GetOrder)
			authorized.POST("/orders/:id/cancel", h.Order.CancelOrder)
		}

		// 后台
		admin := v1.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
		{
			admin.POST("/products", h.Admin.CreateProduct)
			admin.DELETE("/products/:id", h.Admin.DeleteProduct)
			admin.GET("/orders", h.Admin.ListOrders)
			admin.PATCH("/orders/tracking", h.Admin.UpdateTracking)
			admin.PATCH("/orders/:id/status", h.Admin.ChangeStatus)
		}
	}

	return r
}

// registerTagNames 校验错误使用json/form tag作为字段名
func registerTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}
