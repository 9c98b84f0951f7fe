package node

import (
	"sync"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
)

type outbound struct {
	subject string
	data    []byte
}

// Sender 发送端，测试时可以替换
type Sender interface {
	SendMessage(subject string, data []byte) error
	Close() error
}

// NatsWorker 异步发布：Publish 只入队，由写协程串行发送，不阻塞对局推进
type NatsWorker struct {
	sender    Sender
	writeChan chan outbound
	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewNatsWorker() *NatsWorker {
	return &NatsWorker{
		writeChan: make(chan outbound, 1024),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
}

// Run url nats 服务的地址
func (worker *NatsWorker) Run(url string) error {
	cli := NewNatsClient()
	if err := cli.Run(url); err != nil {
		return err
	}
	worker.Start(cli)
	return nil
}

// Start 使用给定的发送端启动写协程
func (worker *NatsWorker) Start(sender Sender) {
	worker.sender = sender
	go worker.writeChanMessage()
}

func (worker *NatsWorker) writeChanMessage() {
	defer close(worker.exited)
	for {
		select {
		case msg := <-worker.writeChan:
			worker.send(msg)
		case <-worker.done:
			// 发完队列里剩下的再退出
			for {
				select {
				case msg := <-worker.writeChan:
					worker.send(msg)
				default:
					return
				}
			}
		}
	}
}

func (worker *NatsWorker) send(msg outbound) {
	if err := worker.sender.SendMessage(msg.subject, msg.data); err != nil {
		log.Error("nats 发送错误, subject=%s, err=%v", msg.subject, err)
	}
}

// Publish 队列满时丢弃并返回 ErrQueueFull
func (worker *NatsWorker) Publish(subject string, data []byte) error {
	worker.mu.RLock()
	defer worker.mu.RUnlock()
	if worker.closed {
		return ErrClosed
	}
	select {
	case worker.writeChan <- outbound{subject: subject, data: data}:
		return nil
	default:
		log.Warn("nats 发送队列已满, subject=%s", subject)
		return ErrQueueFull
	}
}

func (worker *NatsWorker) Close() {
	worker.closeOnce.Do(func() {
		worker.mu.Lock()
		worker.closed = true
		worker.mu.Unlock()

		if worker.sender == nil {
			return
		}
		close(worker.done)
		<-worker.exited
		if err := worker.sender.Close(); err != nil {
			log.Warn("关闭 nats 客户端失败: %v", err)
		}
	})
}
