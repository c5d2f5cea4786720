package order

import (
	"fmt"
	"regexp"
	"time"
)

// MaxDailySequence 每日订单序号上限(4位)
const MaxDailySequence = 9999

var orderIDPattern = regexp.MustCompile(`^\d{8}\d{4}$`)

// DayKey 计算订单号日期前缀(YYYYMMDD)，按loc所在时区取日期
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("20060102")
}

// FormatOrderNo 生成订单号 YYYYMMDD + 4位序号
// 序号超过9999时返回ErrDailySequenceExhausted，不会生成5位序号
func FormatOrderNo(day string, seq int64) (string, error) {
	if seq < 1 {
		return "", ErrOrderNoGenerate
	}
	if seq > MaxDailySequence {
		return "", ErrDailySequenceExhausted
	}
	return fmt.Sprintf("%s%04d", day, seq), nil
}

// IsValidOrderID 校验订单号格式(含日期合法性)
func IsValidOrderID(id string) bool {
	if !orderIDPattern.MatchString(id) {
		return false
	}
	if _, err := time.Parse("20060102", id[:8]); err != nil {
		return false
	}
	return id[8:] != "0000"
}
