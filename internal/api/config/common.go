package config

// Config 配置主体
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	CORS          CORSConfig         `mapstructure:"cors"`
	DB            DBConfig           `mapstructure:"database"`
	Redis         RedisConfig        `mapstructure:"redis"`
	Mongo         MongoConfig        `mapstructure:"mongo"`
	JWT           JWTConfig          `mapstructure:"jwt"`
	Logstash      LogstashConfig     `mapstructure:"logstash"`
	Cron          CronConfig         `mapstructure:"cron"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
	Kafka         KafkaConfig        `mapstructure:"kafka"`
	KafkaActions  KafkaTableConsumer `mapstructure:"kafka_action_consumer"`
	KafkaComments KafkaTableConsumer `mapstructure:"kafka_comment_consumer"`
	KafkaFollows  KafkaTableConsumer `mapstructure:"kafka_follow_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// CORSConfig 跨域配置，AllowOrigins 为空时放行任意来源
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
	MaxAge       int      `mapstructure:"max_age"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql 或 sqlite
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	Silent      bool   `mapstructure:"silent"` // 关闭 SQL 日志
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTConfig struct {
	Secret         string   `mapstructure:"secret"`
	ExpireHours    int      `mapstructure:"expire_hours"`
	ModeratorRoles []string `mapstructure:"moderator_roles"`
}

// LogstashConfig 远程日志，Address 为空时只输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type CronConfig struct {
	DirtyRecount string `mapstructure:"dirty_recount"`
	FullRecount  string `mapstructure:"full_recount"`
	FullBatch    int    `mapstructure:"full_batch"`
}

type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaTableConsumer canal 单表 topic 的消费配置
type KafkaTableConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
