package node

import (
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/nats-io/nats.go"
)

// NatsClient 只负责发布，断线由 nats 自动重连
type NatsClient struct {
	conn *nats.Conn
}

func NewNatsClient() *NatsClient {
	return &NatsClient{}
}

func (nc *NatsClient) IsConnected() bool {
	return nc.conn != nil && nc.conn.IsConnected()
}

func (nc *NatsClient) Run(url string) error {
	log.Info("nats 正在连接, url:%s", url)
	opts := []nats.Option{
		nats.Name("anyjara"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats 连接断开: %v", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats 已重连: %s", c.ConnectedUrl())
		}),
		nats.Timeout(10 * time.Second),
	}
	var err error
	nc.conn, err = nats.Connect(url, opts...)
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return err
	}
	log.Info("nats 连接成功, url:%s", url)
	return nil
}

func (nc *NatsClient) SendMessage(subject string, data []byte) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}
	return nc.conn.Publish(subject, data)
}

// Close 先把缓冲的消息刷出去再断开
func (nc *NatsClient) Close() error {
	if nc.conn == nil {
		return nil
	}
	if err := nc.conn.Flush(); err != nil {
		log.Warn("nats flush 失败: %v", err)
	}
	nc.conn.Close()
	log.Info("NATS 连接已关闭")
	return nil
}
