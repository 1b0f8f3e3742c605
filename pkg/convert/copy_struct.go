// Package convert 提供结构体转换工具
package convert

import (
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
)

// StructAssign 将 src 与 dst 同名字段的值复制到 dst 中
// dst 目标结构体指针，src 源结构体
func StructAssign(src any, dst any) any {
	copier.Copy(dst, src)
	return dst
}

// StructToMap 结构体转 map
// param 需要被转的数据，data 转换完成后的数据，需要用引用传进来
func StructToMap(param any, data map[string]interface{}) error {
	str, err := sonic.Marshal(param)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(str, &data)
}

// JSONFieldNames 返回结构体导出字段的 JSON 字段名列表
// 读取 json 标签，跳过 "-" 字段；非结构体返回空
func JSONFieldNames(input any) []string {
	t := reflect.TypeOf(input)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		names = append(names, name)
	}
	return names
}
