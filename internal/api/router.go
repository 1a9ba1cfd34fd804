package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shopping-list-api/internal/api/handlers/health"
	shoppingHandler "shopping-list-api/internal/api/handlers/shopping"
	"shopping-list-api/internal/api/middleware"
	"shopping-list-api/internal/core/ai/cache"
	"shopping-list-api/internal/core/ai/service"
	"shopping-list-api/internal/core/parse"
	shoppingCore "shopping-list-api/internal/core/shopping"
	"shopping-list-api/internal/infrastructure/config"
	"shopping-list-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)：純文字 API，不收大型負載
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, db *sql.DB) (*gin.Engine, *parse.Debouncer, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化持久層與調和服務
	store := shoppingCore.NewStore(db)
	shoppingSvc := shoppingCore.NewService(store)

	// 初始化解析策略：OpenRouter 關閉時只用確定性解析器
	var aiParser parse.TextParser
	if cfg.OpenRouter.Enabled {
		aiService, err := service.NewService(cfg, cacheManager)
		if err != nil || aiService == nil {
			common.LogError("Failed to initialize AI service", zap.Error(err))
			return nil, nil, fmt.Errorf("failed to initialize AI service: %w", err)
		}
		aiParser = parse.NewAIParser(aiService)
	}
	policy := parse.NewPolicy(aiParser)
	debouncer := parse.NewDebouncer(cfg.Parser.DebounceWait)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置
		c.Set("config", cfg)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(db))
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 購物清單相關路由；寫入操作掛請求去重，雙擊或重試只生效一次
		shoppingGroup := api.Group("/shopping")
		shoppingGroup.Use(middleware.Deduplication(cfg))
		{
			shoppingGroup.POST("/parse", shoppingHandler.HandleParse(policy, debouncer))

			shoppingGroup.POST("/lists", shoppingHandler.HandleCreateList(store))
			shoppingGroup.GET("/lists/:listID/items", shoppingHandler.HandleGetItems(shoppingSvc))
			shoppingGroup.POST("/lists/:listID/items", shoppingHandler.HandleAddItem(shoppingSvc, policy))
			shoppingGroup.POST("/lists/:listID/view", shoppingHandler.HandleViewList(shoppingSvc))
			shoppingGroup.POST("/lists/:listID/clear-completed", shoppingHandler.HandleClearCompleted(shoppingSvc))
			shoppingGroup.POST("/lists/:listID/clear-all", shoppingHandler.HandleClearAll(shoppingSvc))
			shoppingGroup.POST("/lists/:listID/recipes/:recipeID", shoppingHandler.HandleImportRecipe(shoppingSvc, store))

			shoppingGroup.POST("/items/:itemID/toggle", shoppingHandler.HandleToggleItem(shoppingSvc))
			shoppingGroup.POST("/items/:itemID/swipe", shoppingHandler.HandleSwipeItem(shoppingSvc))
			shoppingGroup.DELETE("/items/:itemID", shoppingHandler.HandleDeleteItem(shoppingSvc))
		}

		// 食譜讀取模型路由
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("", shoppingHandler.HandleCreateRecipe(store))
			recipeGroup.GET("/:recipeID", shoppingHandler.HandleGetRecipe(store))
			recipeGroup.POST("/:recipeID/ingredients", shoppingHandler.HandleAddRecipeIngredient(store))
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("ai_parser_enabled", aiParser != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, debouncer, nil
}
