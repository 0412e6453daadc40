//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/xiebiao/library/internal/application/admin"
	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/catalog"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain"
	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、对象存储、消息队列
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	provideCoverStore,
	provideLoanPublisher,
	wire.Bind(new(appbook.CoverStore), new(*storage.CoverStore)),
)

// repositorySet 仓储、缓存与会话存储
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewProfileRepository,
	rdb.NewAuthorRepository,
	rdb.NewCategoryRepository,
	rdb.NewBookRepository,
	rdb.NewLoanRepository,
	rdb.NewTxManager,
	provideReportRepository,
	wire.Bind(new(domain.TxManager), new(*rdb.TxManager)),

	redis.NewSessionStore,
	redis.NewAuthEventBus,
	provideBookCache,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(appuser.RecoveryTokenStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	wire.Bind(new(user.AuthEventBus), new(*redis.AuthEventBus)),
	wire.Bind(new(book.Cache), new(*redis.BookCache)),
)

// domainSet 领域服务与借阅策略
var domainSet = wire.NewSet(
	provideUserService,
	author.NewService,
	book.NewService,
	provideLoanPolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewResetPasswordUseCase,
	appuser.NewProfileUseCase,
	provideRecoverUseCase,

	catalog.NewAuthorUseCase,
	catalog.NewCategoryUseCase,

	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewRecentBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewUploadCoverUseCase,

	apploan.NewBorrowUseCase,
	apploan.NewReturnUseCase,
	apploan.NewMyLoansUseCase,
	apploan.NewCheckExistingLoanUseCase,
	apploan.NewReadingStatsUseCase,

	admin.NewListLoansUseCase,
	admin.NewStatsUseCase,
)

// interfaceSet 中间件、处理器与路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,

	handler.NewUserHandler,
	handler.NewProfileHandler,
	handler.NewCatalogHandler,
	handler.NewBookHandler,
	handler.NewLoanHandler,
	handler.NewAdminHandler,
	handler.NewEventsHandler,
	wire.Struct(new(router.Handlers), "*"),

	router.New,
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的逆序释放连接
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
