package config

import (
	"fmt"
)

// ============================================================================
// 包级加载函数 - 便捷接口
// ============================================================================

// Load 加载单个配置文件（自动识别格式），默认支持环境变量替换
// 环境变量格式: ${ENV_VAR} 或 ${ENV_VAR:default_value}
func Load(path string) (*Config, error) {
	cfg := New()
	if err := cfg.Load(path); err != nil {
		return nil, err
	}

	replaceEnvVars(cfg.data)
	return cfg, nil
}

// Unmarshal 加载配置（支持环境变量替换）并解析到结构体
func Unmarshal(path string, target any) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Unmarshal(target); err != nil {
		return fmt.Errorf("config: failed to unmarshal config from %s: %w", path, err)
	}
	return nil
}

// ============================================================================
// Must* 系列方法 - 失败时 panic，适用于启动阶段
// ============================================================================

// MustUnmarshal 加载配置并直接解析到结构体，失败时 panic
// 适合在 main 函数中使用
func MustUnmarshal(path string, target any) {
	if err := Unmarshal(path, target); err != nil {
		panic(err)
	}
}
