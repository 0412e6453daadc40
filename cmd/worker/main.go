// worker 消费借阅事件，写入审计日志
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger.SetDefault(logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    cfg.Log.Output,
		Component: "worker",
	}))
	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		messaging.ExchangeType,
		cfg.MQ.Queue,
		messaging.RoutingKeys,
	)
	if err != nil {
		log.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := messaging.NewAuditHandler(messaging.NewLogAuditRecorder())
	if err := consumer.Consume(ctx, handler); err != nil {
		logger.L().Error("消费中断", "error", err)
		return
	}
	logger.L().Info("worker已退出")
}
