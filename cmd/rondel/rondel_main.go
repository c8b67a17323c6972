package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"Imperial/internal/accounting"
	"Imperial/internal/rondel/actor"
	"Imperial/internal/rondel/app"
	"Imperial/internal/rondel/app/port"
	"Imperial/internal/rondel/domain"
	infraacc "Imperial/internal/rondel/infra/accounting"
	"Imperial/internal/rondel/infra/messaging"
	"Imperial/internal/rondel/infra/messaging/memory"
	redispub "Imperial/internal/rondel/infra/messaging/redis"
	"Imperial/internal/rondel/infra/messaging/wsfeed"
	memstore "Imperial/internal/rondel/infra/persistence/memory"
	mongostore "Imperial/internal/rondel/infra/persistence/mongodb"
	mysqlstore "Imperial/internal/rondel/infra/persistence/mysql"
	rondelhttp "Imperial/internal/rondel/interfaces/http"
	"Imperial/internal/shared/config"
	"Imperial/internal/shared/infrastructure/db"
	"Imperial/internal/shared/infrastructure/mongo"
	"Imperial/internal/shared/logs"
	"Imperial/internal/shared/metrics"
	"Imperial/internal/shared/security"
	transportgrpc "Imperial/internal/shared/transport/grpc"
	transporthttp "Imperial/internal/shared/transport/http"
	"Imperial/internal/shared/transport/http/middleware"
	"Imperial/internal/shared/transport/ws"
)

const appName = "rondel"

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	conf := config.Load(*cfgPath)
	if err := logs.Init(appName, conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	log := logs.Logger()
	logs.Info("conf", zap.String("storage", conf.Rondel.Storage), zap.String("publisher", conf.Rondel.Publisher))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, conf)
	if err != nil {
		logs.Fatal("open game store failed", zap.Error(err))
	}
	defer closeStore()

	hub := ws.NewHub()
	bus := memory.NewBus(memory.WithRetention(10000))
	unsubscribe := bus.Subscribe(func(ctx context.Context, ev domain.Event) {
		log.WithContext(ctx).Debug("event published", zap.String("event", ev.EventName()))
	})
	defer unsubscribe()
	publisher, closePublisher, err := openPublisher(conf, bus, hub)
	if err != nil {
		logs.Fatal("open event publisher failed", zap.Error(err))
	}
	defer closePublisher()

	ledger := accounting.NewLedger(conf.Accounting.StartingTreasury, log)
	m := metrics.New()
	svc := app.NewService(store, publisher, infraacc.NewDispatcher(ledger), log, m, nil)
	rt := actor.NewRuntime(svc, actor.Config{
		AskTimeout:  conf.Rondel.AskTimeout,
		IOTimeout:   conf.Rondel.IOTimeout,
		IdleTimeout: conf.Rondel.IdleTimeout,
	}, log)
	ledger.OnSettled(infraacc.SettlementHandler(rt, conf.Accounting.SettleTimeout, log))
	config.OnReload(func(c config.Config, err error) {
		if err != nil {
			logs.Warn("config reload failed, keep previous", zap.Error(err))
			return
		}
		// 其余配置（存储、端口、io_timeout）只在启动时读取
		logs.SetLevel(c.Log.Level)
		rt.SetAskTimeout(c.Rondel.AskTimeout)
		logs.Info("config reloaded", zap.String("log_level", c.Log.Level), zap.Duration("ask_timeout", c.Rondel.AskTimeout))
	})

	var guard gin.HandlerFunc
	if conf.Security.JWTRequired {
		signer, err := security.NewSigner(conf.Security.JWTSecret, 0)
		if err != nil {
			logs.Fatal("jwt signer init failed", zap.Error(err))
		}
		guard = middleware.Auth(signer)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	httpServer := transporthttp.NewHttpServer(conf.HTTPServer.Addr(), engine, log)
	engine.GET("/metrics", gin.WrapH(m.Handler()))
	engine.GET("/ws/feed", gin.WrapH(ws.NewServer(hub, log)))
	rondelhttp.NewHandler(rt, svc).RegisterRoutes(engine.Group("/api/v1"), guard)

	grpcServer := transportgrpc.NewServer(log)
	lis, err := net.Listen("tcp", conf.GRPCServer.Addr())
	if err != nil {
		logs.Fatal("listen grpc failed", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logs.Info("rondel http server started", zap.String("addr", conf.HTTPServer.Addr()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve failed: %w", err)
		}
	}()
	go func() {
		logs.Info("rondel grpc server started", zap.String("addr", conf.GRPCServer.Addr()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve failed: %w", err)
		}
	}()
	grpcServer.SetServing("", true)
	grpcServer.SetServing(appName, true)

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	grpcServer.SetServing(appName, false)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown failed", zap.Error(err))
	}
	// 先停记账：排队中的结算还要回送给 runtime
	if err := ledger.Close(shutdownCtx); err != nil {
		logs.Error("ledger close failed", zap.Error(err))
	}
	rt.Shutdown()
	grpcServer.Stop()
}

func openStore(ctx context.Context, conf config.Config) (port.GameStore, func(), error) {
	switch conf.Rondel.Storage {
	case config.StorageMemory, "":
		return memstore.NewGameStore(), func() {}, nil
	case config.StorageMySQL:
		gormDB, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		store := mysqlstore.NewGameStore(gormDB)
		if err := store.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store, closeFn, nil
	case config.StorageMongoDB:
		client, err := mongo.Open(ctx, conf.MongoDB, logs.Zap())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongostore.NewGameStore(client.Database(conf.MongoDB.Database)), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown rondel.storage %q", conf.Rondel.Storage)
	}
}

// openPublisher 事件总是推给进程内总线和 ws 订阅者，redis 模式先写一份 stream。
func openPublisher(conf config.Config, bus *memory.Bus, hub *ws.Hub) (port.EventPublisher, func(), error) {
	local := []port.EventPublisher{bus, wsfeed.NewPublisher(hub)}
	switch conf.Rondel.Publisher {
	case config.PublisherMemory, "":
		return messaging.NewFanout(local...), func() {}, nil
	case config.PublisherRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		pub := redispub.NewPublisher(client,
			redispub.WithPrefix(conf.Redis.Prefix),
			redispub.WithStreamLen(conf.Redis.StreamLen),
		)
		// stream 是对外的持久副本，写失败时不再推给本地订阅者
		return messaging.NewFanout(append([]port.EventPublisher{pub}, local...)...), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown rondel.publisher %q", conf.Rondel.Publisher)
	}
}
