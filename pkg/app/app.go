// Package app 提供渲染应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使渲染入口可以被命令行工具和
// 预览工具共用。
package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/gifmoji/pkg/config"
	"github.com/decker502/gifmoji/pkg/resource"
)

// appName 是 gdata 设置存储的命名空间
const appName = "gifmoji"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// DisableStorage 跳过 gdata 初始化（仅内存设置，测试用）
	DisableStorage bool
}

// App 是渲染应用的核心包装器
// 持有跨场景复用的设置管理器和字体缓存
type App struct {
	settings *SettingsManager
	fonts    *resource.FontManager
	verbose  bool
}

// NewApp 创建并初始化渲染应用
//
// 设置存储不可用时降级为内存默认值，渲染本身不依赖持久化。
func NewApp(cfg Config) *App {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	var manager *gdata.Manager
	if !cfg.DisableStorage {
		m, err := gdata.Open(gdata.Config{
			AppName: appName,
		})
		if err != nil {
			log.Printf("[App] Warning: settings storage unavailable: %v (settings will not persist)", err)
		} else {
			manager = m
		}
	}

	settings, err := NewSettingsManager(manager)
	if err != nil {
		log.Printf("[App] Warning: failed to initialize settings: %v", err)
	}

	return &App{
		settings: settings,
		fonts:    resource.NewFontManager(),
		verbose:  cfg.Verbose,
	}
}

// RenderScene 构建场景，执行绘制管线并编码为 GIF 字节流
func (a *App) RenderScene(s *config.Scene) ([]byte, error) {
	anim, err := s.Build(a.fonts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	data, err := anim.Render(s.Delay(), s.Loop)
	if err != nil {
		return nil, fmt.Errorf("failed to render scene: %w", err)
	}
	log.Printf("[App] Rendered %d frames of %dx%d at %d fps (%d bytes)",
		s.Frames, s.Width, s.Height, s.FPS, len(data))
	return data, nil
}

// RenderToFile 渲染场景并写出 GIF 文件
//
// path 为空时根据场景名在输出目录下生成文件名，为 "-" 时写到标准输出。
// 返回实际写入的路径。
func (a *App) RenderToFile(s *config.Scene, path string) (string, error) {
	if path == "" {
		path = a.OutputPath(s.Name)
	}

	data, err := a.RenderScene(s)
	if err != nil {
		return "", err
	}

	if path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return "", fmt.Errorf("failed to write GIF to stdout: %w", err)
		}
		return path, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write GIF %s: %w", path, err)
	}
	log.Printf("[App] GIF written to %s", path)
	return path, nil
}

// OutputPath 根据场景名推导输出文件路径，未命名场景输出 emoji.gif
func (a *App) OutputPath(name string) string {
	if name == "" {
		name = "emoji"
	}
	return filepath.Join(a.settings.GetSettings().OutputDir, name+".gif")
}

// Settings 返回设置管理器
func (a *App) Settings() *SettingsManager {
	return a.settings
}

// Fonts 返回共享字体缓存
func (a *App) Fonts() *resource.FontManager {
	return a.fonts
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
