package config

import "time"

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	HTTPServer HTTPServerConfig `mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `mapstructure:"grpcserver"`
	MySQL      MySQLConfig      `mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `mapstructure:"mongodb"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Rondel     RondelConfig     `mapstructure:"rondel"`
	Accounting AccountingConfig `mapstructure:"accounting"`
	Security   SecurityConfig   `mapstructure:"security"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	FileDir    string `mapstructure:"file_dir"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Dev        bool   `mapstructure:"dev"`
}

type HTTPServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GRPCServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	MaxIdle  int    `mapstructure:"max_idle"`
	MaxConn  int    `mapstructure:"max_conn"`
	// SlowThreshold 超过即按慢查询记 warn 日志
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Prefix    string `mapstructure:"prefix"`
	StreamLen int64  `mapstructure:"stream_len"`
}

// 存储与发布后端的取值。
const (
	StorageMemory  = "memory"
	StorageMongoDB = "mongodb"
	StorageMySQL   = "mysql"

	PublisherMemory = "memory"
	PublisherRedis  = "redis"
)

type RondelConfig struct {
	Storage   string `mapstructure:"storage"`
	Publisher string `mapstructure:"publisher"`
	// AskTimeout 消息必须在这之前开始执行；开始后调用方再最多等 IOTimeout
	AskTimeout time.Duration `mapstructure:"ask_timeout"`
	// IOTimeout 单次流水线 I/O 的上限，流水线开始后不受调用方取消影响
	IOTimeout   time.Duration `mapstructure:"io_timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type AccountingConfig struct {
	StartingTreasury int `mapstructure:"starting_treasury"`
	// SettleTimeout 结算结果回送轮盘的等待上限
	SettleTimeout time.Duration `mapstructure:"settle_timeout"`
}

type SecurityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// JWTRequired=false 时命令接口不校验令牌（本地调试）
	JWTRequired bool `mapstructure:"jwt_required"`
}

func (c HTTPServerConfig) Addr() string { return joinHostPort(c.Host, c.Port) }
func (c GRPCServerConfig) Addr() string { return joinHostPort(c.Host, c.Port) }
