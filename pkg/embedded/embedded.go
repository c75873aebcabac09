// Package embedded 提供预置场景资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让 main 与预览工具共用同一套预置场景访问逻辑：
// main 传入根目录的 embed.FS，cmd/preview 传入 os.DirFS(".")，
// 测试传入 fstest.MapFS。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// sceneDir 是预置场景在资源树中的目录
const sceneDir = "assets/scenes"

var (
	resourceFS  fs.FS
	initialized bool
)

// Init 初始化资源文件系统
// 必须在 main() 开始时、任何场景加载之前调用
func Init(resources fs.FS) {
	resourceFS = resources
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符为正斜杠并移除可能的 "./" 前缀
// （embed.FS 使用正斜杠）
func normalize(p string) string {
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "./")
}

// Open 打开资源文件
// 路径必须以 "assets/" 开头
func Open(p string) (fs.File, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}

	p = normalize(p)
	if !strings.HasPrefix(p, "assets/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/')", p)
	}
	return resourceFS.Open(p)
}

// ReadFile 读取资源文件内容
// 路径必须以 "assets/" 开头
func ReadFile(p string) ([]byte, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}

	p = normalize(p)
	if !strings.HasPrefix(p, "assets/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/')", p)
	}
	return fs.ReadFile(resourceFS, p)
}

// Exists 检查资源文件是否存在
func Exists(p string) bool {
	file, err := Open(p)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// ReadDir 读取资源目录内容
// 路径必须以 "assets/" 开头
func ReadDir(p string) ([]fs.DirEntry, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}

	p = normalize(p)
	if !strings.HasPrefix(p, "assets/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/')", p)
	}
	return fs.ReadDir(resourceFS, p)
}

// SceneData 读取预置场景 <name>.yaml 的内容
func SceneData(name string) ([]byte, error) {
	return ReadFile(path.Join(sceneDir, name+".yaml"))
}

// SceneExists 检查预置场景是否存在
func SceneExists(name string) bool {
	return Exists(path.Join(sceneDir, name+".yaml"))
}

// SceneNames 返回所有预置场景名，按字母序排列
func SceneNames() ([]string, error) {
	entries, err := ReadDir(sceneDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}
