// Package app 提供应用级元信息
package app

// 版本信息变量，由构建时注入
var (
	Version   string = "0.3.0"
	GitTag    string = "dev"
	BuildTime string = "2000-01-01T00:00:00+0800"
)

// 应用名称常量
const (
	// Name 应用名称
	Name = "Entity Version Control Service"
)
