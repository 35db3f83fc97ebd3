package serverApp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	database "xtopay-checkout/internal/pkg/db"
	"xtopay-checkout/internal/pkg/gateway"
	"xtopay-checkout/internal/pkg/kairos"
	"xtopay-checkout/internal/pkg/merchant"
	"xtopay-checkout/internal/pkg/middleware"
	"xtopay-checkout/internal/pkg/rabbitmq"
	"xtopay-checkout/internal/pkg/redis"
	"xtopay-checkout/internal/repository"
	paymentRepo "xtopay-checkout/internal/repository/payment"

	checkoutHandler "xtopay-checkout/internal/handler/checkout"
	embedHandler "xtopay-checkout/internal/handler/embed"
	otpHandler "xtopay-checkout/internal/handler/otp"
	paymentHandler "xtopay-checkout/internal/handler/payment"
	checkoutService "xtopay-checkout/internal/service/checkout"
	embedService "xtopay-checkout/internal/service/embed"
	otpService "xtopay-checkout/internal/service/otp"
	paymentService "xtopay-checkout/internal/service/payment"

	"xtopay-checkout/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	publisher *rabbitmq.Publisher,
	kairosClient kairos.IKairos,
	merchantClient merchant.IMerchant,
	gatewayClient gateway.IGateway,
	baseURL string,
) {
	InitMiddleware(engine)

	// Set swagger host dynamically from APP_BASE_URL
	if parsed, err := url.Parse(baseURL); err == nil {
		docs.SwaggerInfo.Host = parsed.Host
		if strings.HasPrefix(baseURL, "https") {
			docs.SwaggerInfo.Schemes = []string{"https"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http"}
		}
	}

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Load HTML templates and static assets for checkout pages
	engine.LoadHTMLGlob("frontend/templates/*")
	engine.Static("/static", "frontend/static")

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"
		databaseHealth := "unhealthy"

		if db != nil && !db.IsCloseConnection() {
			databaseHealth = "healthy"
		}
		if rb != nil && !rb.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if redisClient != nil {
			if _, err := redisClient.Get("health:probe"); err == nil || errors.Is(err, redis.NilType) {
				redisHealth = "healthy"
			}
		}
		c.JSON(200, gin.H{
			"status": 200,
			"service": gin.H{
				"rabbitmq": gin.H{
					"status": rabbitmqHealth,
				},
				"redis": gin.H{
					"status": redisHealth,
				},
				"database": gin.H{
					"status": databaseHealth,
				},
			},
		})
	})

	e := engine.Group(BasePath())
	InitRoutes(e, engine, ctx, wg, db, redisClient, publisher, kairosClient, merchantClient, gatewayClient, baseURL)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(
	e *gin.RouterGroup,
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	publisher *rabbitmq.Publisher,
	kairosClient kairos.IKairos,
	merchantClient merchant.IMerchant,
	gatewayClient gateway.IGateway,
	baseURL string,
) {

	// setup repo
	rp := repository.IRepository{
		Payment: paymentRepo.NewRepo(db),
	}

	// === OTP relay ===
	OtpService := otpService.NewService(ctx, kairosClient)
	OtpHandler := otpHandler.NewHandler(ctx, OtpService)
	OtpHandler.NewRoutes(engine)

	// === Payment ===
	var outcomePublisher paymentService.IPublisher
	if publisher != nil {
		outcomePublisher = publisher
	}
	PaymentService := paymentService.NewService(ctx, rp, gatewayClient, outcomePublisher)
	PaymentHandler := paymentHandler.NewHandler(ctx, PaymentService)
	PaymentHandler.NewRoutes(e)
	PaymentHandler.NewRootRoutes(engine)

	// === Checkout flow ===
	CheckoutService := checkoutService.NewService(ctx, checkoutService.DefaultConfig(), merchantClient, redisClient, OtpService, PaymentService)
	CheckoutHandler := checkoutHandler.NewHandler(ctx, CheckoutService, baseURL)
	CheckoutHandler.NewRoutes(e)
	CheckoutHandler.NewPageRoutes(engine)

	// === Embed sessions ===
	EmbedService := embedService.NewService(ctx, baseURL)
	EmbedHandler := embedHandler.NewHandler(ctx, EmbedService)
	EmbedHandler.NewRoutes(e)
}
