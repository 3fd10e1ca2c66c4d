package inventory

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"dealership/models"
)

// ListParams 是列表頁的查詢條件，數值欄位保留請求中的原始字串
type ListParams struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
	Sort     string
	Page     string
}

type ListResult struct {
	Cars       []models.Car `json:"cars"`
	Total      int64        `json:"total"`
	TotalPages int64        `json:"total_pages"`
	Page       int64        `json:"page"`
	PerPage    int64        `json:"per_page"`
	Sort       string       `json:"sort"`
	Categories []string     `json:"categories"`
}

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTitleAsc  = "title_asc"
)

// sortOrders 是允許的排序方式，每一種都以 id 作為最後的排序鍵以保證分頁穩定
var sortOrders = map[string]string{
	SortPriceAsc:  "COALESCE(price, 0) ASC, id ASC",
	SortPriceDesc: "COALESCE(price, 0) DESC, id DESC",
	SortNewest:    "id DESC",
	SortOldest:    "id ASC",
	SortTitleAsc:  "title ASC, id ASC",
}

var sortAliases = map[string]string{
	"price":      SortPriceAsc,
	"date_added": SortNewest,
	"title":      SortTitleAsc,
}

const carColumns = `id, title,
	COALESCE(description, '') AS description,
	COALESCE(price, 0) AS price,
	COALESCE(category, '') AS category,
	COALESCE(mileage, '') AS mileage,
	COALESCE(body_condition, '') AS body_condition,
	COALESCE(fuel_efficiency, '') AS fuel_efficiency,
	COALESCE(engine_performance, '') AS engine_performance,
	COALESCE(main_image, '') AS main_image,
	COALESCE(seller_name, '') AS seller_name,
	COALESCE(seller_photo, '') AS seller_photo,
	seller_id, date_added`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NormalizeSort 將排序參數對應到允許的排序方式，無法辨識時使用 newest
func NormalizeSort(sort string) string {
	sort = strings.ToLower(strings.TrimSpace(sort))
	if alias, ok := sortAliases[sort]; ok {
		return alias
	}
	if _, ok := sortOrders[sort]; ok {
		return sort
	}
	return SortNewest
}

// ParsePrice 解析價格條件，無法解析、NaN 或無限大時視為沒有條件
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParsePage 解析頁碼，無法解析或小於 1 時回傳 1
func ParsePage(raw string) int64 {
	page, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// buildFilter 組合 WHERE 子句，所有使用者輸入都以參數綁定
func buildFilter(params ListParams) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if search := strings.TrimSpace(params.Search); search != "" {
		// 大小寫轉換交給資料庫，兩邊才會套用相同的規則
		pattern := "%" + likeEscaper.Replace(search) + "%"
		conditions = append(conditions, `(LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE LOWER(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if category := strings.TrimSpace(params.Category); category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}
	if minPrice, ok := ParsePrice(params.MinPrice); ok {
		conditions = append(conditions, "COALESCE(price, 0) >= ?")
		args = append(args, minPrice)
	}
	if maxPrice, ok := ParsePrice(params.MaxPrice); ok {
		conditions = append(conditions, "COALESCE(price, 0) <= ?")
		args = append(args, maxPrice)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListCars 依照條件篩選、排序並分頁車輛，同時回傳總數與所有分類
func (inv *Inventory) ListCars(ctx context.Context, params ListParams) (*ListResult, error) {
	const op = "Inventory.ListCars"
	perPage := int64(inv.options.PerPage)
	page := ParsePage(params.Page)
	sort := NormalizeSort(params.Sort)
	where, args := buildFilter(params)

	countRows, err := inv.store.Query(ctx, "SELECT COUNT(*) AS total FROM cars"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to count cars, err=%w", op, err)
	}
	var total int64
	if len(countRows) > 0 {
		total = countRows[0].Int64("total")
	}

	totalPages := (total + perPage - 1) / perPage

	// 超出最後一頁時不查詢，避免 OFFSET 溢位
	cars := []models.Car{}
	if page <= totalPages {
		query := "SELECT " + carColumns + " FROM cars" + where + " ORDER BY " + sortOrders[sort] + " LIMIT ? OFFSET ?"
		pageArgs := append(append([]any{}, args...), perPage, (page-1)*perPage)
		if err := inv.store.Select(ctx, &cars, query, pageArgs...); err != nil {
			return nil, fmt.Errorf("[%s] Fail to select cars, err=%w", op, err)
		}
	}

	categories, err := inv.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to list categories, err=%w", op, err)
	}

	return &ListResult{
		Cars:       cars,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
		Sort:       sort,
		Categories: categories,
	}, nil
}

// Categories 回傳所有非空的分類，依字母排序
func (inv *Inventory) Categories(ctx context.Context) ([]string, error) {
	const op = "Inventory.Categories"
	rows, err := inv.store.Query(ctx, `SELECT DISTINCT category FROM cars WHERE category IS NOT NULL AND category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to query categories, err=%w", op, err)
	}
	categories := make([]string, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.String("category"))
	}
	return categories, nil
}
