package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/pkg/mq"
	"storefront/internal/pkg/redis"
	"storefront/internal/pkg/zookeeper"
	"storefront/internal/service/order/application"
	"storefront/internal/service/order/infrastructure"
	"storefront/internal/service/order/infrastructure/adapter"
	"storefront/internal/service/order/interfaces"
)

const serviceName = "order-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	cfg := bootstrap.GetCurrentConfig()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			// 1. 持久化：MySQL 仓储 + Redis 读缓存
			db, err := infrastructure.NewOrderDB(infrastructure.MySQLConfig{
				Host:     cfg.Infra.MySQL.Host,
				Port:     cfg.Infra.MySQL.Port,
				User:     cfg.Infra.MySQL.User,
				Password: cfg.Infra.MySQL.Password,
				Database: cfg.Infra.MySQL.Database,
			})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to mysql")
			}
			redisClient, err := redis.NewClient(cfg.Infra.Redis.Addr)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize redis client")
			}
			repo := infrastructure.NewCachedOrderRepository(
				infrastructure.NewGormOrderRepository(db), redisClient)

			// 2. 出站适配器：协作方 HTTP 调用、Kafka 通知、ZooKeeper 订单锁
			tracer := otel.Tracer(serviceName)
			httpClient := httpclient.NewClient(tracer, appCtx.Nacos, cfg.Timeout())

			kafkaWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.NotificationTopic)
			notifier := adapter.NewNotificationKafkaAdapter(kafkaWriter)

			zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Addrs, 10*time.Second)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to zookeeper")
			}
			locker := adapter.NewZkOrderLocker(zkConn)

			// 3. 应用层：弹性网关包住所有协作方，再组装应用服务
			gateway := application.NewResilienceGateway(
				adapter.NewCartHTTPAdapter(httpClient),
				adapter.NewCatalogHTTPAdapter(httpClient),
				adapter.NewPaymentHTTPAdapter(httpClient),
				notifier,
				cfg.BreakerConfig(),
			)
			orderService := application.NewOrderApplicationService(repo, gateway, locker, tracer)

			// 4. 入站 HTTP 路由
			interfaces.NewOrderHandler(orderService).RegisterRoutes(appCtx.Mux)
		},
	})
}
