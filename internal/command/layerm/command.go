// Package layerm 提供分层配置合并命令。
package layerm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lwmacct/251207-go-pkg-version/pkg/version"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-layerm/internal/command"
	"github.com/lwmacct/251207-go-pkg-layerm/internal/config"
	"github.com/lwmacct/251207-go-pkg-layerm/pkg/dumper"
	"github.com/lwmacct/251207-go-pkg-layerm/pkg/loader"
	"github.com/lwmacct/251207-go-pkg-layerm/pkg/tmpl"
)

// ErrNoFiles 未指定任何输入文件
var ErrNoFiles = errors.New("no input files given")

// Command layerm 命令
var Command = New()

// New 创建 layerm 命令，每次调用返回独立的实例
func New() *cli.Command {
	return &cli.Command{
		Name:      "layerm",
		Usage:     "按优先级合并分层配置文件，可选展开 {path} 占位符",
		ArgsUsage: "FILE... (第一个文件优先级最高，- 表示标准输入)",
		Action:    action,
		Commands:  []*cli.Command{version.Command},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "loader",
				Aliases: []string{"l"},
				Value:   command.Defaults.Loader,
				Usage:   "输入文件格式 (" + strings.Join(loader.Names(), ", ") + ")",
			},
			&cli.StringFlag{
				Name:    "dumper",
				Aliases: []string{"d"},
				Value:   command.Defaults.Dumper,
				Usage:   "输出格式 (" + strings.Join(dumper.Names(), ", ") + ")",
			},
			&cli.BoolFlag{
				Name:    "expand",
				Aliases: []string{"e"},
				Value:   command.Defaults.Expand,
				Usage:   "合并后展开 {path} 占位符",
			},
			&cli.IntFlag{
				Name:  "indent",
				Value: command.Defaults.Indent,
				Usage: "JSON 输出缩进宽度，0 为紧凑格式",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "layerm 自身的配置文件路径",
			},
		},
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := config.Load(cmd, version.GetAppRawName())
	if err != nil {
		return err
	}

	if cmd.NArg() == 0 {
		return ErrNoFiles
	}

	load, err := loader.Lookup(cfg.Loader)
	if err != nil {
		return err
	}
	dump, err := dumper.Lookup(cfg.Dumper, cfg.Indent)
	if err != nil {
		return err
	}

	sources := make([]loader.Source, 0, cmd.NArg())
	for _, arg := range cmd.Args().Slice() {
		sources = append(sources, source(cmd, arg))
	}

	tree, err := loader.LoadFiles(sources, load)
	if err != nil {
		return err
	}
	slog.Debug("Merged layers", "layers", len(sources), "keys", tree.Len())

	if cfg.Expand {
		if tree, err = tmpl.Expand(tree); err != nil {
			return err
		}
	}

	out, err := dump(tree)
	if err != nil {
		return err
	}

	if _, err := cmd.Root().Writer.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// source 将命令行参数转换为输入源，"-" 读取命令的 Reader (默认标准输入)
func source(cmd *cli.Command, arg string) loader.Source {
	if arg != "-" {
		return loader.File(arg)
	}
	if r := cmd.Root().Reader; r != nil {
		return loader.Reader(r)
	}

	return loader.Stdin()
}

// PrintError 向 w 输出错误诊断，w 为终端时 "error:" 前缀显示为红色
func PrintError(w io.Writer, err error) {
	prefix := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}

	_, _ = fmt.Fprintf(w, "%s %v\n", prefix.Sprint("error:"), err)
}
