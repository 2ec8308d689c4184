package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookcatalog/docs" // 注册swagger文档
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// NewRouter 创建并配置Gin引擎
// 路由：
//   - GET /ping           健康检查
//   - GET /metrics        Prometheus指标
//   - GET /swagger/*any   API文档（访问 /swagger/index.html）
//   - /books              图书CRUD
func NewRouter(cfg *config.Config, log *zap.Logger, bookHandler *handler.BookHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	// Recovery放在最里层:panic转成500后,日志、Span和指标照常收尾
	r.Use(
		middleware.RequestLogger(log),
		middleware.Metrics(),
		gin.Recovery(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境建议禁用Swagger或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	bookHandler.RegisterRoutes(r)

	return r
}
