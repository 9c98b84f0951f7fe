package node

import "errors"

var (
	ErrNotConnected = errors.New("未连接到 nats")
	ErrQueueFull    = errors.New("发送队列已满")
	ErrClosed       = errors.New("发布器已关闭")
)
