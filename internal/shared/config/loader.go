package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀：RONDEL_RONDEL_STORAGE 覆盖 rondel.storage。
const EnvPrefix = "RONDEL"

func load(configPath string, watch bool) (Config, error) {
	if !fileExist(configPath) {
		return Config{}, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	c, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	set(c)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) { reload(v, e.Name) })
		v.WatchConfig()
	}
	return c, nil
}

// reload 解码失败时保留旧配置，两种结果都交给 OnReload 注册的回调。
func reload(v *viper.Viper, file string) {
	next, err := decode(v)
	if err != nil {
		notify(Current(), fmt.Errorf("config reload failed, file=%s: %w", file, err))
		return
	}
	set(next)
	notify(next, nil)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	return c, err
}

// setDefaults 每个可被环境变量覆盖的 key 都要有默认值，否则 Unmarshal 看不到它。
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file_dir", "")
	v.SetDefault("httpserver.host", "0.0.0.0")
	v.SetDefault("httpserver.port", 8080)
	v.SetDefault("grpcserver.host", "0.0.0.0")
	v.SetDefault("grpcserver.port", 9090)
	v.SetDefault("mysql.host", "")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.dbname", "")
	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.database", "imperial")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("mysql.max_idle", 10)
	v.SetDefault("mysql.max_conn", 50)
	v.SetDefault("mysql.slow_threshold", 200*time.Millisecond)
	v.SetDefault("mongodb.connect_timeout", 3*time.Second)
	v.SetDefault("redis.prefix", "rondel")
	v.SetDefault("redis.stream_len", 1000)
	v.SetDefault("rondel.storage", StorageMemory)
	v.SetDefault("rondel.publisher", PublisherMemory)
	v.SetDefault("rondel.ask_timeout", 3*time.Second)
	v.SetDefault("rondel.io_timeout", 5*time.Second)
	v.SetDefault("rondel.idle_timeout", 10*time.Minute)
	v.SetDefault("accounting.starting_treasury", 20)
	v.SetDefault("accounting.settle_timeout", 5*time.Second)
	v.SetDefault("security.jwt_required", true)
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
