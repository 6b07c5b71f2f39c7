package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/titanous/json5"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Format 配置文件格式
type Format string

const (
	FormatINI     Format = "ini"
	FormatJSON    Format = "json"
	FormatJSON5   Format = "json5"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatUnknown Format = "unknown"
)

// parseFile 从文件解析配置
func parseFile(filepath string) (map[string]any, error) {
	format := detectFormat(filepath)
	if format == FormatUnknown {
		return nil, fmt.Errorf("cannot detect format from file extension: %s", filepath)
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return parse(data, format)
}

// parse 解析字节流
func parse(data []byte, format Format) (map[string]any, error) {
	var (
		result map[string]any
		err    error
	)
	switch format {
	case FormatINI:
		result, err = parseINI(data)
	case FormatJSON:
		err = json.Unmarshal(data, &result)
	case FormatJSON5:
		err = json5.Unmarshal(data, &result)
	case FormatYAML:
		err = yaml.Unmarshal(data, &result)
	case FormatTOML:
		err = toml.Unmarshal(data, &result)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", strings.ToUpper(string(format)), err)
	}
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

// parseINI 解析INI格式
// 段和键名不区分大小写（统一转为小写），默认段中的键放在第一层
func parseINI(data []byte) (map[string]any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return nil, err
	}

	result := make(map[string]any)
	for _, sec := range f.Sections() {
		if strings.EqualFold(sec.Name(), ini.DefaultSection) {
			for _, key := range sec.Keys() {
				result[key.Name()] = key.String()
			}
			continue
		}

		section := make(map[string]any, len(sec.Keys()))
		for _, key := range sec.Keys() {
			section[key.Name()] = key.String()
		}
		result[sec.Name()] = section
	}
	return result, nil
}

// detectFormat 根据文件扩展名检测格式
func detectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ini", ".cfg", ".conf":
		return FormatINI
	case ".json":
		return FormatJSON
	case ".json5":
		return FormatJSON5
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// marshal 将map序列化为指定格式的字节流
func marshal(data map[string]any, format Format) ([]byte, error) {
	switch format {
	case FormatINI:
		return marshalINI(data)
	case FormatJSON, FormatJSON5:
		// JSON 是合法的 JSON5
		return json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		return yaml.Marshal(data)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// marshalINI 只支持两层结构：第一层的 map 作为段，其余作为默认段的键
func marshalINI(data map[string]any) ([]byte, error) {
	f := ini.Empty()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		val := data[name]
		m, ok := val.(map[string]any)
		if !ok {
			if _, err := f.Section(ini.DefaultSection).NewKey(name, fmt.Sprint(val)); err != nil {
				return nil, err
			}
			continue
		}

		sec, err := f.NewSection(name)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			if _, err := sec.NewKey(k, fmt.Sprint(v)); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to marshal INI: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFile 将配置写入文件
func writeFile(filepath string, data map[string]any) error {
	format := detectFormat(filepath)
	if format == FormatUnknown {
		return fmt.Errorf("cannot detect format from file extension: %s", filepath)
	}

	out, err := marshal(data, format)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath, out, 0o644)
}
