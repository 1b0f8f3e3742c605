package global

import (
	"github.com/chronoverse/evcs/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Entity Version Control Service"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
