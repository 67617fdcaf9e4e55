// Package config 提供通用的分层配置加载功能，用于加载命令行工具自身的设置。
//
// # 特性
//
// 使用泛型支持任意配置结构体类型，配置加载优先级 (从低到高)：
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 通过 [WithConfigPaths] 选项设置，.json 使用 JSON 解析，其余按 YAML
//  3. 内存配置 - 通过 [WithConfigBytes] 选项设置
//  4. 环境变量 - 通过 [WithEnvPrefix] 选项启用
//  5. CLI flags - 通过 [WithCommand] 选项设置，最高优先级
//
// # 快速开始
//
//	type Config struct {
//	    Loader string `koanf:"loader"`
//	    Expand bool   `koanf:"expand"`
//	}
//
//	cfg, err := config.Load(Config{Loader: "yaml"},
//	    config.WithConfigPaths(config.DefaultPaths("myapp")...),
//	    config.WithEnvPrefix("MYAPP_"),
//	    config.WithCommand(cmd),
//	)
//
// # 环境变量
//
// 命名规则：前缀 + 大写的 koanf key，点号 (.) 与连字符 (-) 转为下划线 (_)：
//   - MYAPP_EXPAND → expand
//   - MYAPP_SERVER_URL → server.url
//
// # CLI Flag 映射
//
// koanf key 中的 "." 与 "_" 转为 "-"，仅用户明确指定的 flag 会覆盖配置：
//   - server.url → --server-url
//   - tls.skip_verify → --tls-skip-verify
package config
