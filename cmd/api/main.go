package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"restaurant/internal/config"
	"restaurant/internal/handler"
	"restaurant/internal/i18n"
	"restaurant/internal/infra/db"
	"restaurant/internal/infra/memory"
	infraRepo "restaurant/internal/infra/repository"
	"restaurant/internal/infra/token"
	"restaurant/internal/logging"
	"restaurant/internal/repository"
	"restaurant/internal/server"
	"restaurant/internal/usecase"
	auth "restaurant/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

// 保存先ドライバごとのリポジトリ一式
type storage struct {
	users     repository.UserRepository
	tokens    repository.RefreshTokenRepository
	orders    repository.OrderRepository
	ledger    repository.LedgerRepository
	stock     repository.StockRepository
	materials repository.MaterialRepository
	foods     repository.FoodRepository
	tx        repository.TransactionManager
	health    handler.HealthCheck
	close     func() error
}

func openStorage(cfg config.Config, log *zap.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		s := memory.NewStore()
		return &storage{
			users:     s.Users(),
			tokens:    s.RefreshTokens(),
			orders:    s.Orders(),
			ledger:    s.Ledger(),
			stock:     s.Stock(),
			materials: s.Materials(),
			foods:     s.Foods(),
			tx:        s.TxManager(),
			close:     s.Close,
		}, nil
	default:
		//DB接続
		gdb, err := db.Connect(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gdb); err != nil {
			_ = db.Close(gdb)
			return nil, fmt.Errorf("migrate: %w", err)
		}

		//Repository（GORM実装）生成
		return &storage{
			users:     infraRepo.NewUserGormRepository(gdb),
			tokens:    infraRepo.NewRefreshTokenRepository(gdb),
			orders:    infraRepo.NewOrderGormRepository(gdb),
			ledger:    infraRepo.NewLedgerGormRepository(gdb),
			stock:     infraRepo.NewStockGormRepository(gdb),
			materials: infraRepo.NewMaterialGormRepository(gdb),
			foods:     infraRepo.NewFoodGormRepository(gdb),
			tx:        infraRepo.NewTxManagerGorm(gdb),
			health: func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			close: func() error { return db.Close(gdb) },
		}, nil
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, closeStorage, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	//サーバーが止まってから保存先を閉じる
	defer closeStorage()

	//Server起動
	return srv.Run(ctx)
}

// newApp は設定から全部の部品を組み立てる
func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*server.Server, func(), error) {
	cat, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		return nil, nil, err
	}

	st, err := openStorage(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeStorage := func() {
		if err := st.close(); err != nil {
			log.Warn("storage_close_failed", zap.Error(err))
		}
	}
	log.Info("storage_opened", zap.String("driver", cfg.StorageDriver))

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer, err := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(st.users, hasher, idGen, clock)
	loginUC := auth.NewLoginUsecase(st.users, st.tokens, verifier, issuer, idGen, clock, cfg.RefreshTokenTTL)
	refreshUC := auth.NewRefreshUsecase(st.users, st.tokens, issuer, idGen, clock, cfg.RefreshTokenTTL, log)
	logoutUC := auth.NewLogoutUsecase(st.tokens, clock)
	sweeper := auth.NewTokenSweeper(st.tokens, clock, time.Hour, log)

	stockAgg := usecase.NewStockAggregator(st.stock, st.materials)
	orderUC := usecase.NewOrderUsecase(st.tx, st.users, st.orders, st.ledger, idGen, clock, log)
	inventoryUC := usecase.NewInventoryUsecase(st.tx, st.ledger, idGen, clock, log)
	materialUC := usecase.NewMaterialUsecase(st.materials, stockAgg, idGen, clock)
	foodUC := usecase.NewFoodUsecase(st.foods, st.materials, idGen, clock)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := registerUC.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			closeStorage()
			return nil, nil, fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			log.Info("admin_created", zap.String("email", cfg.AdminEmail))
		}
	}

	//Handler生成
	guards := handler.NewGuards(cfg, st.users)
	responder := handler.NewResponder(cat, log)

	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	srv := server.New(addr, log, responder.HandleError,
		handler.NewHealthHandler(st.health),
		handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, cfg.RefreshTokenTTL, !cfg.IsDev()),
		handler.NewOrderHandler(orderUC, guards),
		handler.NewInventoryHandler(inventoryUC, stockAgg, guards),
		handler.NewMaterialHandler(materialUC, guards),
		handler.NewFoodHandler(foodUC, guards),
	)
	srv.AddWorker(sweeper.Run)

	return srv, closeStorage, nil
}
