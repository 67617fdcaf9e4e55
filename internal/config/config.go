// Package config 提供 layerm 自身的运行配置。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - --config 指定，否则按 AppPaths 搜索，不读取通用的 config.yaml
//  3. 环境变量 - LAYERM_ 前缀，如 LAYERM_DUMPER=yaml
//  4. CLI flags - 仅用户明确指定的 flag
package config

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/config"
	"github.com/lwmacct/251207-go-pkg-layerm/pkg/dumper"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "LAYERM_"

// Config 应用配置
type Config struct {
	Loader string `koanf:"loader" desc:"输入文件格式 (json、jsonc、yaml、yml)"`
	Dumper string `koanf:"dumper" desc:"输出格式 (json、yaml、yml)"`
	Expand bool   `koanf:"expand" desc:"合并后展开 {path} 占位符"`
	Indent int    `koanf:"indent" desc:"JSON 输出缩进宽度，0 为紧凑格式"`
}

// DefaultConfig 返回默认配置
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Loader: "yaml", // JSON 是 YAML 的子集
		Dumper: "json",
		Indent: dumper.DefaultIndent,
	}
}

// Load 加载配置。cmd 设置了 --config 时只读取该文件，文件不存在则返回错误。
func Load(cmd *cli.Command, appName string, opts ...config.Option) (*Config, error) {
	base := []config.Option{
		config.WithCommand(cmd),
		config.WithConfigPaths(config.AppPaths(appName)...),
		config.WithEnvPrefix(EnvPrefix),
	}
	if cmd != nil && cmd.String("config") != "" {
		base = append(base, config.WithConfigFile(cmd.String("config")))
	}

	return config.Load(DefaultConfig(), append(base, opts...)...)
}
