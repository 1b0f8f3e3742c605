// Package fileurl 提供文件路径处理工具
package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// IsExist 检查路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// IsDir 检查路径是否为目录
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreatePath 创建文件所在的目录
func CreatePath(dst string, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// GetExePath 获取可执行文件所在目录
func GetExePath() string {
	exe, err := os.Executable()
	if err != nil {
		dir, _ := os.Getwd()
		return dir
	}
	return filepath.Dir(exe)
}

// IsAbsPath 判断是否为绝对路径（兼容 Windows 盘符）
func IsAbsPath(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	if len(path) > 1 && path[1] == ':' {
		return true
	}
	return strings.HasPrefix(path, string(os.PathSeparator))
}

// GetAbsPath 将相对路径转换为基于 root 的绝对路径
func GetAbsPath(path string, root string) (string, error) {
	if IsAbsPath(path) {
		return path, nil
	}
	return filepath.Abs(filepath.Join(root, path))
}
