package bootstrap

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"storefront/internal/pkg/breaker"
)

// Config 是服务的全量配置，从 YAML 文件加载，缺省值兜底。
type Config struct {
	App struct {
		ServiceName string `yaml:"serviceName"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`
	Infra struct {
		MySQL struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Database string `yaml:"database"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers           []string `yaml:"brokers"`
			NotificationTopic string   `yaml:"notificationTopic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			Addrs     string `yaml:"addrs"`
			Namespace string `yaml:"namespace"`
			Group     string `yaml:"group"`
		} `yaml:"nacos"`
		Zookeeper struct {
			Addrs []string `yaml:"addrs"`
		} `yaml:"zookeeper"`
	} `yaml:"infra"`
	Collaborators struct {
		TimeoutSeconds int `yaml:"timeoutSeconds"`
		Breaker        struct {
			MaxRequests         uint32 `yaml:"maxRequests"`
			IntervalSeconds     int    `yaml:"intervalSeconds"`
			TimeoutSeconds      int    `yaml:"timeoutSeconds"`
			ConsecutiveFailures uint32 `yaml:"consecutiveFailures"`
		} `yaml:"breaker"`
	} `yaml:"collaborators"`
}

// Timeout 返回协作方调用的超时时间
func (c *Config) Timeout() time.Duration {
	if c.Collaborators.TimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Collaborators.TimeoutSeconds) * time.Second
}

// BreakerConfig 把配置里的熔断参数转换成 breaker.Config
func (c *Config) BreakerConfig() breaker.Config {
	cfg := breaker.DefaultConfig()
	b := c.Collaborators.Breaker
	if b.MaxRequests > 0 {
		cfg.MaxRequests = b.MaxRequests
	}
	if b.IntervalSeconds > 0 {
		cfg.Interval = time.Duration(b.IntervalSeconds) * time.Second
	}
	if b.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(b.TimeoutSeconds) * time.Second
	}
	if b.ConsecutiveFailures > 0 {
		cfg.ConsecutiveFailures = b.ConsecutiveFailures
	}
	return cfg
}

var (
	currentConfig *Config
	configOnce    sync.Once
)

// GetCurrentConfig 返回进程级配置单例，首次调用时加载
func GetCurrentConfig() *Config {
	configOnce.Do(func() {
		path := os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "configs/config.yaml"
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
		currentConfig = cfg
	})
	return currentConfig
}

// LoadConfig 从文件加载配置，文件不存在时使用缺省值
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.ServiceName = "order-service"
	cfg.App.Port = 8080
	cfg.Infra.MySQL.Host = "localhost"
	cfg.Infra.MySQL.Port = 3306
	cfg.Infra.MySQL.User = "root"
	cfg.Infra.MySQL.Password = "root"
	cfg.Infra.MySQL.Database = "storefront"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.NotificationTopic = "order-notifications"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Nacos.Addrs = "localhost:8848"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	cfg.Infra.Zookeeper.Addrs = []string{"localhost:2181"}
	cfg.Collaborators.TimeoutSeconds = 3
	return cfg
}
