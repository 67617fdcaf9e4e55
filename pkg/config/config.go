// Author: lwmacct (https://github.com/lwmacct)
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// DefaultPaths 返回默认配置文件搜索路径：[AppPaths] 加上当前目录下通用的
// config.yaml 与 config/config.yaml
func DefaultPaths(appName ...string) []string {
	var paths []string
	if len(appName) > 0 {
		paths = AppPaths(appName[0])
	}

	return append(paths, "config.yaml", "config/config.yaml")
}

// AppPaths 返回应用专属的配置文件路径：当前目录、用户主目录和系统配置目录。
// appName 为空时返回 nil。
func AppPaths(appName string) []string {
	if appName == "" {
		return nil
	}

	paths := []string{"." + appName + ".yaml"}
	// 添加用户主目录
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appName+".yaml"))
	}
	// 添加系统配置目录
	return append(paths, "/etc/"+appName+"/config.yaml")
}

// ═══════════════════════════════════════════════════════════════════════════
// 选项
// ═══════════════════════════════════════════════════════════════════════════

type options struct {
	configPaths []string
	configFile  string
	configBytes []byte
	envPrefix   string
	cmd         *cli.Command
}

// Option 配置加载选项
type Option func(*options)

// WithConfigPaths 设置配置文件搜索路径，按顺序找到第一个即停止
func WithConfigPaths(paths ...string) Option {
	return func(o *options) { o.configPaths = paths }
}

// WithConfigFile 指定必须存在的配置文件，取代 WithConfigPaths 的搜索
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithConfigBytes 从内存中的 YAML 加载配置，位于配置文件之后
func WithConfigBytes(data []byte) Option {
	return func(o *options) { o.configBytes = data }
}

// WithEnvPrefix 启用带前缀的环境变量，如 MYAPP_SERVER_URL → server.url
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithCommand 使用用户明确指定的 CLI flags 覆盖配置 (最高优先级)
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) { o.cmd = cmd }
}

// ═══════════════════════════════════════════════════════════════════════════
// 加载
// ═══════════════════════════════════════════════════════════════════════════

// Load 加载配置，按优先级合并 (从低到高)：
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - WithConfigFile 指定的文件 (不存在时报错)，
//     否则按 WithConfigPaths 顺序搜索，找到第一个即停止
//  3. 内存配置 - WithConfigBytes
//  4. 环境变量 - WithEnvPrefix
//  5. CLI flags - WithCommand，仅用户明确指定的 flag
//
// 泛型参数 T 为配置结构体类型，必须使用 koanf tag 标记字段。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	// 1️⃣ 默认配置
	if err := k.Load(structs.Provider(defaultConfig, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// 2️⃣ 配置文件
	configLoaded := false
	if o.configFile != "" {
		if _, err := os.Stat(o.configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		o.configPaths = []string{o.configFile}
	}
	for _, path := range o.configPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), parserForPath(path)); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		slog.Debug("Loaded config from file", "path", path)
		configLoaded = true
		break
	}
	if !configLoaded {
		slog.Debug("No config file found, using defaults")
	}

	// 3️⃣ 内存配置
	if len(o.configBytes) > 0 {
		if err := k.Load(rawbytes.Provider(o.configBytes), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config bytes: %w", err)
		}
	}

	// 4️⃣ 环境变量
	if o.envPrefix != "" {
		if err := k.Load(confmap.Provider(envValues(o.envPrefix, k.Keys()), "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load env config: %w", err)
		}
	}

	// 5️⃣ CLI flags
	if o.cmd != nil {
		applyCLIFlags(o.cmd, k, reflect.TypeOf(defaultConfig), "")
	}

	var cfg T
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// parserForPath 按扩展名选择解析器，默认 YAML
func parserForPath(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}

	return yaml.Parser()
}

// envKey 配置 key 对应的环境变量名：前缀 + 大写，"." 与 "-" 转为 "_"
func envKey(prefix, key string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return prefix + strings.ToUpper(r.Replace(key))
}

// envValues 为已知的配置 key 收集已设置的环境变量
func envValues(prefix string, keys []string) map[string]any {
	values := make(map[string]any)
	for _, key := range keys {
		if v, ok := os.LookupEnv(envKey(prefix, key)); ok {
			values[key] = v
		}
	}

	return values
}

// applyCLIFlags 递归遍历结构体字段，将用户明确指定的 CLI flags 写入 koanf
//
// koanf key 中的 "." 与 "_" 转为 "-" 作为 flag 名称：
//   - server.url → --server-url
//   - expand → --expand
func applyCLIFlags(cmd *cli.Command, k *koanf.Koanf, typ reflect.Type, prefix string) {
	for i := range typ.NumField() {
		field := typ.Field(i)

		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeFor[time.Time]() {
			applyCLIFlags(cmd, k, field.Type, key)
			continue
		}

		flag := strings.NewReplacer(".", "-", "_", "-").Replace(key)
		if !cmd.IsSet(flag) {
			continue
		}

		switch {
		case field.Type == reflect.TypeFor[time.Duration]():
			_ = k.Set(key, cmd.Duration(flag))
		case field.Type.Kind() == reflect.String:
			_ = k.Set(key, cmd.String(flag))
		case field.Type.Kind() == reflect.Bool:
			_ = k.Set(key, cmd.Bool(flag))
		case field.Type.Kind() == reflect.Int:
			_ = k.Set(key, cmd.Int(flag))
		case field.Type.Kind() == reflect.Float64:
			_ = k.Set(key, cmd.Float64(flag))
		case field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.String:
			_ = k.Set(key, cmd.StringSlice(flag))
		}
	}
}
