package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/core/container"
)

const shutdownTimeout = 5 * time.Second

// ServeFunc 在容器就绪后执行的子命令，ctx 在收到退出信号时取消
type ServeFunc func(ctx context.Context, c *container.GameContainer) error

// Run 组装容器并执行 serve，处理退出信号，保证容器被关闭
func Run(ctx context.Context, conf *config.SimConfiguration, serve ServeFunc) error {
	gameContainer, err := container.NewGameContainer(conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := gameContainer.Close(); err != nil {
			log.Error("关闭 game 容器失败: %v", err)
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(runCtx, gameContainer)
	}()

	stop := func() error {
		log.Info("正在关闭 game 服务...")
		cancel()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		select {
		case err := <-errCh:
			log.Info("game 服务已关闭")
			return ignoreCanceled(err)
		case <-shutdownCtx.Done():
			log.Warn("关闭 game 服务超时（5秒），defer 会确保资源最终被释放")
			return nil
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case err := <-errCh:
			return ignoreCanceled(err)
		case <-ctx.Done():
			return stop()
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				log.Info("中断信号，服务停止")
				return stop()
			case syscall.SIGHUP:
				log.Info("挂起信号，服务停止")
				return stop()
			}
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
