//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改本文件后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链:
// Config → Logger → RecordStore(+缓存) → Catalog → UseCase → Handler/CatalogServer → App

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
	"github.com/xiebiao/bookcatalog/internal/interface/rpc"
)

// infrastructureSet 配置、日志、存储、消息
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	provideRecordStore,
	provideEventPublisher,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	book.NewCatalog,
)

// applicationSet 图书用例
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewReplaceBookUseCase,
	appbook.NewPatchBookUseCase,
	appbook.NewDeleteBookUseCase,
)

// interfaceSet HTTP和gRPC接口层
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	router.NewRouter,
	provideHTTPServer,
	rpc.NewCatalogServer,
	provideGRPCServer,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序释放消息连接、Redis、数据库和日志
func InitializeApp() (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
