// Package translation 实现批次翻译流水线：限速、退避、响应校验修复、
// 并发调度与单文档编排。
package translation

import (
	"fmt"
	"sync"
)

// Diagnostics 整个翻译运行期间共享的追加式告警/错误日志。
// 所有方法可在多个 worker 之间并发调用。
type Diagnostics struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

// NewDiagnostics 创建诊断收集器
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warnf 追加一条可恢复的告警
func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

// Errorf 追加一条不可恢复的单元级错误
func (d *Diagnostics) Errorf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, fmt.Sprintf(format, args...))
}

// Warnings 返回告警副本，保持追加顺序
func (d *Diagnostics) Warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Errors 返回错误副本，保持追加顺序
func (d *Diagnostics) Errors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.errors))
	copy(out, d.errors)
	return out
}

// HasErrors 是否存在错误记录
func (d *Diagnostics) HasErrors() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.errors) > 0
}

// Clear 清空全部记录，调用方展示完诊断后调用
func (d *Diagnostics) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = nil
	d.errors = nil
}
