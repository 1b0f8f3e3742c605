// Package timex 提供可存储的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeFormat 时间序列化格式
const TimeFormat = "2006-01-02 15:04:05.999999"

// Time 数据库友好的时间类型
// 序列化为本地格式字符串，兼容 sqlite / mysql / postgres 驱动
type Time time.Time

// Now 获取当前时间
func Now() Time {
	return Time(time.Now())
}

// Time 转换为标准库时间
func (t Time) Time() time.Time {
	return time.Time(t)
}

// IsZero 判断是否为零值时间
func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

// Unix 返回 Unix 时间戳（秒）
func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

// UnixMilli 返回 Unix 时间戳（毫秒）
func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

// UnixMicro 返回 Unix 时间戳（微秒）
func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

// UnixNano 返回 Unix 时间戳（纳秒）
func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// MarshalJSON 实现 json.Marshaler 接口
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + time.Time(t).Format(TimeFormat) + `"`), nil
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `""` || s == "null" {
		*t = Time(time.Time{})
		return nil
	}
	parsed, err := time.ParseInLocation(`"`+TimeFormat+`"`, s, time.Local)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// parse 依次尝试各驱动的时间文本格式
// sqlite 驱动存储 time.Time 时携带时区后缀，mysql 文本协议则没有
func parse(s string) (Time, error) {
	layouts := []string{
		TimeFormat,
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
	}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return Time(parsed), nil
		}
		lastErr = err
	}
	return Time{}, lastErr
}

// Value 实现 driver.Valuer 接口
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现 sql.Scanner 接口
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time(time.Time{})
	case time.Time:
		*t = Time(value)
	case string:
		parsed, err := parse(value)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := parse(string(value))
		if err != nil {
			return err
		}
		*t = parsed
	default:
		return fmt.Errorf("cannot convert %v to timex.Time", v)
	}
	return nil
}

// String 实现 fmt.Stringer 接口
func (t Time) String() string {
	return time.Time(t).Format(TimeFormat)
}
