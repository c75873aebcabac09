package app

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// RenderSettings 全局渲染设置
// 注意：这些设置是全局的，不绑定到特定场景文件
type RenderSettings struct {
	// 字体与输出
	FontPath  string `yaml:"fontPath"`  // 默认字体文件路径，空串表示内置字体
	OutputDir string `yaml:"outputDir"` // GIF 输出目录

	// 渲染参数
	FPS    int `yaml:"fps"`    // 帧率 1 ~ 10
	Frames int `yaml:"frames"` // 帧数 1 ~ 50
}

// 渲染参数的合法范围
const (
	minFPS    = 1
	maxFPS    = 10
	minFrames = 1
	maxFrames = 50
)

// DefaultRenderSettings 返回默认设置
func DefaultRenderSettings() *RenderSettings {
	return &RenderSettings{
		FontPath:  "",
		OutputDir: ".",
		FPS:       5,
		Frames:    10,
	}
}

// SettingsManager 设置管理器
// 负责渲染设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *RenderSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultRenderSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultRenderSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		// 文件不存在，使用默认设置
		sm.settings = DefaultRenderSettings()
		return nil
	}

	// 从 gdata 加载数据
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		// 文件存在但加载失败，使用默认设置
		sm.settings = DefaultRenderSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 反序列化 YAML 数据
	var loadedSettings RenderSettings
	if err := yaml.Unmarshal(data, &loadedSettings); err != nil {
		sm.settings = DefaultRenderSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loadedSettings
	sm.clampAll()
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
//
// 返回：
//   - *RenderSettings: 当前设置实例
func (sm *SettingsManager) GetSettings() *RenderSettings {
	return sm.settings
}

// SetFPS 设置默认帧率
//
// 帧率会被限制在 1 ~ 10 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - fps: 每秒帧数 (1 ~ 10)
func (sm *SettingsManager) SetFPS(fps int) {
	sm.settings.FPS = clampInt(fps, minFPS, maxFPS)
}

// SetFrames 设置默认帧数
//
// 帧数会被限制在 1 ~ 50 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - frames: 动画帧数 (1 ~ 50)
func (sm *SettingsManager) SetFrames(frames int) {
	sm.settings.Frames = clampInt(frames, minFrames, maxFrames)
}

// SetFontPath 设置默认字体路径
//
// 空串表示使用内置字体
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - path: 字体文件路径
func (sm *SettingsManager) SetFontPath(path string) {
	sm.settings.FontPath = path
}

// SetOutputDir 设置输出目录
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - dir: GIF 输出目录
func (sm *SettingsManager) SetOutputDir(dir string) {
	if dir == "" {
		dir = "."
	}
	sm.settings.OutputDir = dir
}

// clampAll 将加载的设置拉回合法范围
func (sm *SettingsManager) clampAll() {
	sm.settings.FPS = clampInt(sm.settings.FPS, minFPS, maxFPS)
	sm.settings.Frames = clampInt(sm.settings.Frames, minFrames, maxFrames)
	if sm.settings.OutputDir == "" {
		sm.settings.OutputDir = "."
	}
}

// clampInt 将整数值限制在 [lo, hi] 范围内
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
