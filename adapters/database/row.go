package database

import (
	"fmt"
	"strconv"
)

// Row 是正規化後的一列資料，無論後端為何都以欄位名稱存取
type Row map[string]any

func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// String 回傳欄位的字串值，NULL 回傳空字串
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 回傳欄位的整數值，NULL 或無法轉換時回傳 0
func (r Row) Int64(column string) int64 {
	switch v := r[column].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string, []byte:
		n, _ := strconv.ParseInt(r.String(column), 10, 64)
		return n
	default:
		return 0
	}
}

// Float64 回傳欄位的浮點數值，NULL 或無法轉換時回傳 0
func (r Row) Float64(column string) float64 {
	switch v := r[column].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case string, []byte:
		f, _ := strconv.ParseFloat(r.String(column), 64)
		return f
	default:
		return 0
	}
}
