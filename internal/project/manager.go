// Package project 管理翻译项目目录：每次运行在根目录下创建
// 带时间戳的项目文件夹，保存原文、中间批次和译文三类产物。
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const timestampLayout = "20060102_150405"

// Layout 单个项目的目录结构
type Layout struct {
	// Root 项目根目录，形如 <root>/<base>_20250101_120000
	Root string

	// OriginalDir 原文副本
	OriginalDir string

	// ChunksDir 发送给翻译服务的中间批次
	ChunksDir string

	// TranslatedDir 译文
	TranslatedDir string
}

// Project 列表视图中的一个项目
type Project struct {
	Name       string
	Path       string
	ModifiedAt time.Time
}

// Manager 项目目录管理器
type Manager struct {
	root   string
	logger *zap.Logger
}

// NewManager 创建管理器，root 为项目根目录
func NewManager(root string, logger *zap.Logger) *Manager {
	return &Manager{root: root, logger: logger}
}

// Root 返回项目根目录
func (m *Manager) Root() string {
	return m.root
}

// Create 为一次翻译运行创建项目目录。baseName 通常取输入
// 文件或目录的名称，目录名追加创建时刻保证唯一。
func (m *Manager) Create(baseName string) (*Layout, error) {
	name := fmt.Sprintf("%s_%s", sanitizeBaseName(baseName), time.Now().Format(timestampLayout))
	layout := &Layout{
		Root: filepath.Join(m.root, name),
	}
	layout.OriginalDir = filepath.Join(layout.Root, "original")
	layout.ChunksDir = filepath.Join(layout.Root, "chunks")
	layout.TranslatedDir = filepath.Join(layout.Root, "translated")

	for _, dir := range []string{layout.OriginalDir, layout.ChunksDir, layout.TranslatedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating project directory %s: %w", dir, err)
		}
	}

	m.logger.Info("project created", zap.String("path", layout.Root))
	return layout, nil
}

// List 返回根目录下的全部项目，按修改时间从新到旧排序
func (m *Manager) List() ([]Project, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading project root %s: %w", m.root, err)
	}

	projects := make([]Project, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		projects = append(projects, Project{
			Name:       e.Name(),
			Path:       filepath.Join(m.root, e.Name()),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ModifiedAt.After(projects[j].ModifiedAt)
	})
	return projects, nil
}

// Delete 删除一个项目。name 必须是 List 返回的项目名，
// 不接受路径分隔符，防止越出根目录。
func (m *Manager) Delete(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid project name %q", name)
	}
	path := filepath.Join(m.root, name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("project %q not found: %w", name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project %q is not a directory", name)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deleting project %q: %w", name, err)
	}
	m.logger.Info("project deleted", zap.String("name", name))
	return nil
}

// ListTranslatableFiles 返回目录下可翻译的文档文件（.yml/.yaml/.json），
// 按文件名排序，不递归子目录。
func ListTranslatableFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// sanitizeBaseName 替换目录名中不安全的字符
func sanitizeBaseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return replacer.Replace(name)
}
