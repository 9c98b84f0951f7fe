package utils

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 以下函数用于从 bson.M 解码，字段缺失或类型不符时返回零值

func ToTime(value any) time.Time {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time()
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0)
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	default:
	}
	return time.Time{}
}

func ToInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func ToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	default:
		return ""
	}
	return ""
}

// toSlice bson 解码出来的数组是 primitive.A
func toSlice(value any) []any {
	switch v := value.(type) {
	case primitive.A:
		return v
	case []any:
		return v
	}
	return nil
}

func ToIntArray(value any) [4]int {
	var result [4]int
	switch v := value.(type) {
	case []int:
		copy(result[:], v)
		return result
	case [4]int:
		return v
	}
	items := toSlice(value)
	for i := 0; i < 4 && i < len(items); i++ {
		result[i] = ToInt(items[i])
	}
	return result
}

// ToIntMatrix 4x4 排名计数
func ToIntMatrix(value any) [4][4]int {
	var result [4][4]int
	if v, ok := value.([4][4]int); ok {
		return v
	}
	rows := toSlice(value)
	for i := 0; i < 4 && i < len(rows); i++ {
		result[i] = ToIntArray(rows[i])
	}
	return result
}

func ToStringArray(value any) []string {
	if v, ok := value.([]string); ok {
		return v
	}
	items := toSlice(value)
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = ToString(item)
	}
	return result
}
