package global

import (
	"testing"
)

// 日志配置段与全局日志器访问函数共存于同一包，
// 二者各自可用且互不遮蔽
func TestLogAccessorAndSetting(t *testing.T) {
	// 未初始化时回落到 no-op 日志器
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	lg := Log()
	if lg == nil {
		t.Fatal("Log() returned nil without an initialized logger")
	}
	// no-op 日志器可安全调用
	lg.Info("noop")

	c := config{
		Log: LogSetting{Level: "debug", Production: true},
	}
	if c.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", c.Log.Level, "debug")
	}
	if !c.Log.Production {
		t.Error("Log.Production = false, want true")
	}
}
