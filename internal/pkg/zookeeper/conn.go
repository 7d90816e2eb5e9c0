package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/rs/zerolog/log"
)

// Conn 封装一个 ZooKeeper 会话
type Conn struct {
	*zk.Conn
}

// Connect 建立到 ZooKeeper 集群的会话
func Connect(addrs []string, sessionTimeout time.Duration) (*Conn, error) {
	if sessionTimeout <= 0 {
		sessionTimeout = 10 * time.Second
	}
	conn, _, err := zk.Connect(addrs, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, err
	}
	log.Info().Strs("addrs", addrs).Msg("connected to zookeeper")
	return &Conn{Conn: conn}, nil
}
