package global

import (
	"os"

	"github.com/chronoverse/evcs/pkg/fileurl"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 全局配置实例
var Config *config

// config 应用配置
type config struct {
	// File 配置文件路径，不序列化
	File     string     `yaml:"-"`
	Server   Server     `yaml:"server"`
	Log      LogSetting `yaml:"log"`
	Database Database   `yaml:"database"`
}

// Server 运行配置
type Server struct {
	// RunMode 运行模式 debug|release
	RunMode string `yaml:"run-mode" default:"release"`
}

// LogSetting 日志配置
type LogSetting struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空输出到 stderr
	File string `yaml:"file" default:""`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// Database 数据库配置
type Database struct {
	// Type 数据库类型 sqlite|mysql|postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/evcs.db"`
	// Host 数据库主机地址
	Host string `yaml:"host" default:"127.0.0.1:3306"`
	// UserName 数据库用户名
	UserName string `yaml:"username"`
	// Password 数据库密码
	Password string `yaml:"password"`
	// Name 数据库名称
	Name string `yaml:"name" default:"evcs"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// TablePrefix 表名前缀
	TablePrefix string `yaml:"table-prefix" default:"evcs_"`
	// MaxIdleConns 连接池空闲连接最大数量
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 打开数据库连接的最大数量
	MaxOpenConns int `yaml:"max-open-conns" default:"50"`
}

// ConfigLoad 从文件加载配置
func ConfigLoad(path string) (*config, error) {
	c := new(config)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set config defaults")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}

	c.File = path
	Config = c
	return c, nil
}

// Save 将当前配置写回文件
func (c *config) Save() error {
	if c.File == "" {
		return errors.New("config file path is empty")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := fileurl.CreatePath(c.File, os.ModePerm); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	return os.WriteFile(c.File, data, 0o644)
}
