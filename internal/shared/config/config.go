package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const defaultConfigRelPath = "configs/conf.yml"

var (
	mu    sync.RWMutex
	conf  Config
	hooks []ReloadFunc
)

// ReloadFunc 热更新回调。成功时 err 为 nil；失败时 c 是仍在生效的旧配置。
type ReloadFunc func(c Config, err error)

// Load 读取配置并开启热更新，失败直接 panic（只在 main 里调用）。
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string) Config {
	path, err := resolve(cfgName)
	if err != nil {
		panic(err)
	}
	c, err := load(path, true)
	if err != nil {
		panic(err)
	}
	return c
}

// Read 只读一次，不开启热更新，测试与工具使用。
func Read(path string) (Config, error) {
	return load(path, false)
}

// Current 当前生效的配置快照（热更新后会变化）。
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

func set(c Config) {
	mu.Lock()
	conf = c
	mu.Unlock()
}

// OnReload 注册热更新回调，在 fsnotify 的协程里按注册顺序调用。
func OnReload(fn ReloadFunc) {
	if fn == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, fn)
	mu.Unlock()
}

func notify(c Config, err error) {
	mu.RLock()
	fns := append([]ReloadFunc(nil), hooks...)
	mu.RUnlock()
	for _, fn := range fns {
		fn(c, err)
	}
}

func resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", defaultConfigRelPath, startDir)
		}
		dir = parent
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
