package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bootstrapLogger startup phase logger
// bootstrapLogger 启动阶段日志器
// Records setup progress before the configured logger exists
// 在配置化日志器就绪之前记录初始化过程
var bootstrapLogger *zap.Logger

func init() {
	// Console encoder for human-readable startup output
	// 控制台 encoder，启动输出便于人工阅读
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	consoleWriter := zapcore.Lock(os.Stderr)

	// DEBUG environment variable lowers the level
	// DEBUG 环境变量可调低日志级别
	level := zapcore.InfoLevel
	if os.Getenv("DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(consoleEncoder, consoleWriter, level)
	bootstrapLogger = zap.New(core, zap.AddCaller())
}

// BootstrapLogger gets the startup phase logger
// BootstrapLogger 获取启动阶段日志器
func BootstrapLogger() *zap.Logger {
	return bootstrapLogger
}
