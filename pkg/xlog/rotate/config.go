package rotate

import (
	"path/filepath"
	"time"
)

// Mode 判断是否需要轮转的方式
type Mode int

const (
	// DayOfMonth 只比较两位的日期（日），与旧版本行为一致：
	// 上个月 15 号写的文件在本月 15 号打开时不会被轮转
	DayOfMonth Mode = iota
	// FullDate 比较年月日
	FullDate
)

// String 返回模式名称
func (m Mode) String() string {
	switch m {
	case DayOfMonth:
		return "day"
	case FullDate:
		return "date"
	default:
		return "unknown"
	}
}

// Config 日志轮转配置
type Config struct {
	// Dir 日志目录（必填）
	Dir string

	// Filename 日志文件名，相对于 Dir（必填）
	Filename string

	// Mode 轮转判断方式，默认 DayOfMonth
	Mode Mode

	// MaxAge 保留归档文件的最大天数，0 表示不删除
	MaxAge int

	// Location 计算日期使用的时区，默认 time.Local
	Location *time.Location

	// Now 当前时间，默认 time.Now（测试时替换）
	Now func() time.Time
}

// Path 当前日志文件的完整路径
func (c Config) Path() string {
	return filepath.Join(c.Dir, c.Filename)
}

// ArchiveDir 归档目录：{Dir}/archives
func (c Config) ArchiveDir() string {
	return filepath.Join(c.Dir, ArchiveDir)
}

// lockPath 归档时持有的锁文件：{Dir}/.{Filename}.lock，不放在归档目录中
func (c Config) lockPath() string {
	return filepath.Join(c.Dir, "."+filepath.Base(c.Filename)+lockExt)
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Config) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}
