package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config 配置管理器
// 数据以 map[string]any 保存，段（section）即为第一层的 map
type Config struct {
	data map[string]any
	mu   sync.RWMutex
}

// New 创建一个新的配置管理器
func New() *Config {
	return &Config{
		data: make(map[string]any),
	}
}

// Load 从文件加载配置并替换现有配置
func (c *Config) Load(filepath string) error {
	data, err := parseFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to load config from file %s: %w", filepath, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	return nil
}

// Set 设置配置值，支持路径访问（如 "file.level"）
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := strings.Split(key, ".")
	current := c.data
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(map[string]any)
		if !ok {
			// 不存在或不是 map 时覆盖为新的 map
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Get 获取配置值，支持路径访问
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := strings.Split(key, ".")
	current := c.data
	for _, k := range keys[:len(keys)-1] {
		m, ok := current[k].(map[string]any)
		if !ok {
			return nil, false
		}
		current = m
	}

	val, exists := current[keys[len(keys)-1]]
	return val, exists
}

// GetString 获取字符串配置值
// 非字符串的标量会被格式化为字符串（TOML/YAML 中未加引号的值）
func (c *Config) GetString(key string) string {
	return c.GetStringWithDefault(key, "")
}

// GetStringWithDefault 获取字符串配置值，如果不存在则返回默认值
func (c *Config) GetStringWithDefault(key string, defaultValue string) string {
	val, ok := c.Get(key)
	if !ok || val == nil {
		return defaultValue
	}
	switch v := val.(type) {
	case string:
		return v
	case map[string]any, []any:
		return defaultValue
	default:
		return fmt.Sprint(v)
	}
}

// Has 检查配置项是否存在
func (c *Config) Has(key string) bool {
	_, exists := c.Get(key)
	return exists
}

// Empty 判断是否没有任何配置数据
func (c *Config) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data) == 0
}

// Sections 返回所有段的名称（已排序）
func (c *Config) Sections() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.data))
	for k, v := range c.data {
		if _, ok := v.(map[string]any); ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Unmarshal 将配置解码到指定的结构体（使用 yaml 标签）
func (c *Config) Unmarshal(target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return decode(c.data, target)
}

// WriteToFile 将配置导出到文件
// 根据文件扩展名自动选择格式（.ini/.json/.yaml/.yml/.toml）
func (c *Config) WriteToFile(filepath string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return writeFile(filepath, c.data)
}

// decode 通过 yaml 中转将 map 解码为结构体
func decode(data map[string]any, target any) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// ============================================================================
// 环境变量处理
// ============================================================================

// replaceEnvVars 递归替换环境变量
func replaceEnvVars(data map[string]any) {
	for key, val := range data {
		switch v := val.(type) {
		case string:
			data[key] = expandEnvVar(v)
		case map[string]any:
			replaceEnvVars(v)
		case []any:
			for i, item := range v {
				if str, ok := item.(string); ok {
					v[i] = expandEnvVar(str)
				} else if m, ok := item.(map[string]any); ok {
					replaceEnvVars(m)
				}
			}
		}
	}
}

// expandEnvVar 展开环境变量
// 支持格式: ${ENV_VAR} 或 ${ENV_VAR:default_value}
func expandEnvVar(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}

	var b strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start:], "}")
		if end == -1 {
			break
		}
		end += start

		name, def, _ := strings.Cut(rest[start+2:end], ":")
		envValue := os.Getenv(name)
		if envValue == "" {
			envValue = def
		}

		b.WriteString(rest[:start])
		b.WriteString(envValue)
		rest = rest[end+1:]
	}
	b.WriteString(rest)

	return b.String()
}
