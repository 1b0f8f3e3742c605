// Package logger 提供基于 zap 的日志构建器
package logger

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string
	// File 日志文件路径，为空时输出到 stderr
	File string
	// Production 是否启用 JSON 输出
	Production bool
}

// NewLogger 根据配置创建 zap 日志器
func NewLogger(c Config) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if c.Level != "" {
		parsed, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", c.Level)
		}
		level = parsed
	}

	var encoder zapcore.Encoder
	if c.Production {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	writer := zapcore.Lock(os.Stderr)
	if c.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.File), os.ModePerm); err != nil {
			return nil, errors.Wrap(err, "create log directory")
		}
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		writer = zapcore.Lock(f)
	}

	core := zapcore.NewCore(encoder, writer, level)
	return zap.New(core, zap.AddCaller()), nil
}
