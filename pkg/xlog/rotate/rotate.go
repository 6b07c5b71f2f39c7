package rotate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	// ArchiveDir 归档子目录名
	ArchiveDir = "archives"

	// 归档文件名中的日期格式：yy-mm-dd
	dateFormat = "06-01-02"
	archiveExt = ".log"

	lockExt = ".lock"
)

// ErrRotate 归档失败
var ErrRotate = errors.New("rotate: failed to archive log file")

// Rotate 检查当前日志文件，如果不是今天写的就移动到归档目录
// 返回归档文件路径；没有发生轮转时返回空字符串
// 文件不存在时什么也不做
func Rotate(cfg Config) (string, error) {
	if cfg.Dir == "" || cfg.Filename == "" {
		return "", fmt.Errorf("%w: dir and filename are required", ErrRotate)
	}

	info, err := os.Stat(cfg.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrRotate, err)
	}

	// 存在旧文件时确保归档目录存在
	if err := os.MkdirAll(cfg.ArchiveDir(), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRotate, err)
	}

	now := cfg.now()
	if !shouldRotate(cfg.Mode, info.ModTime().In(cfg.location()), now) {
		return "", nil
	}

	// 多个进程同一天启动时只有一个进程执行归档
	lock := flock.New(cfg.lockPath())
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRotate, err)
	}
	defer lock.Unlock()

	// 持锁后重新检查，文件可能已被其他进程归档
	info, err = os.Stat(cfg.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrRotate, err)
	}
	modTime := info.ModTime().In(cfg.location())
	if !shouldRotate(cfg.Mode, modTime, now) {
		return "", nil
	}

	archive := filepath.Join(cfg.ArchiveDir(), ArchiveName(cfg.Filename, modTime))
	if err := moveFile(cfg.Path(), archive); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRotate, err)
	}

	if cfg.MaxAge > 0 {
		cleanup(cfg, now)
	}

	return archive, nil
}

// Open 打开当前日志文件
// truncate 为 true 时清空已有内容，否则追加
func Open(path string, truncate bool) (*os.File, error) {
	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	return os.OpenFile(path, flag, 0o666)
}

// ArchiveName 生成归档文件名：{base}-{yy-mm-dd}.log
// base 为文件名第一个点号之前的部分，例如 app.2.log -> app-24-03-15.log
func ArchiveName(filename string, date time.Time) string {
	base := filepath.Base(filename)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%s-%s%s", base, date.Format(dateFormat), archiveExt)
}

// shouldRotate 判断最后修改时间是否属于“今天”之前
func shouldRotate(mode Mode, modTime, now time.Time) bool {
	if mode == FullDate {
		y1, m1, d1 := modTime.Date()
		y2, m2, d2 := now.Date()
		return y1 != y2 || m1 != m2 || d1 != d2
	}
	return modTime.Format("02") != now.Format("02")
}

// moveFile 将 src 移动到 dst
// dst 已存在时（同一天内多次轮转）将内容追加到 dst 后删除 src
func moveFile(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		if err := appendFile(src, dst); err != nil {
			return fmt.Errorf("failed to append log file: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("failed to remove rotated file: %w", err)
		}
		return nil
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename log file: %w", err)
	}
	return nil
}

// cleanup 清理过期的归档文件
func cleanup(cfg Config, now time.Time) {
	dir := cfg.ArchiveDir()
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	// 计算截止日期（只比较日期，忽略时分秒）
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, cfg.location()).AddDate(0, 0, -cfg.MaxAge)
	base := strings.TrimSuffix(ArchiveName(cfg.Filename, now), now.Format(dateFormat)+archiveExt)

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		name := f.Name()
		date, ok := parseArchiveDate(name, base, cfg.location())
		if !ok {
			continue
		}

		// 严格小于 cutoff 才删除
		if date.Before(cutoff) {
			os.Remove(filepath.Join(dir, name))
		}
	}
}

// parseArchiveDate 从归档文件名中解析日期
// prefix 形如 "app-"
func parseArchiveDate(filename, prefix string, loc *time.Location) (time.Time, bool) {
	if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, archiveExt) {
		return time.Time{}, false
	}

	datePart := filename[len(prefix) : len(filename)-len(archiveExt)]
	date, err := time.ParseInLocation(dateFormat, datePart, loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// appendFile 将 src 文件内容追加到 dst 文件
func appendFile(src, dst string) error {
	s, err := os.Open(src)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o666)
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(d, s)
	return err
}
