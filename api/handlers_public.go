package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dealership/adapters/notify"
	"dealership/adapters/session"
	"dealership/inventory"
)

type listFilters struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	MinPrice string `json:"min_price"`
	MaxPrice string `json:"max_price"`
	Sort     string `json:"sort"`
}

type listResponse struct {
	*inventory.ListResult
	Filters listFilters     `json:"filters"`
	Notices []session.Flash `json:"notices"`
}

// GetIndex 首頁與 /cars 使用相同的查詢條件
func (impl *ServerImpl) GetIndex(c *gin.Context) {
	impl.listCars(c, "GetIndex")
}

func (impl *ServerImpl) GetCars(c *gin.Context) {
	impl.listCars(c, "GetCars")
}

func (impl *ServerImpl) listCars(c *gin.Context, op string) {
	sort := c.Query("sort")
	if sort == "" {
		sort = c.Query("sort_by")
	}
	filters := listFilters{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
		Sort:     sort,
	}
	result, err := impl.inventory.ListCars(c, inventory.ListParams{
		Search:   filters.Search,
		Category: filters.Category,
		MinPrice: filters.MinPrice,
		MaxPrice: filters.MaxPrice,
		Sort:     filters.Sort,
		Page:     c.Query("page"),
	})
	if err != nil {
		internalError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		ListResult: result,
		Filters:    filters,
		Notices:    popNotices(c),
	})
}

func (impl *ServerImpl) GetCar(c *gin.Context) {
	const op = "GetCar"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/cars", session.FlashError, "Car not found.")
		return
	}
	detail, err := impl.inventory.GetCar(c, id)
	if errors.Is(err, inventory.ErrCarNotFound) {
		redirectWithFlash(c, "/cars", session.FlashError, "Car not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"car":     detail.Car,
		"seller":  detail.Seller,
		"images":  detail.Images,
		"notices": popNotices(c),
	})
}

func (impl *ServerImpl) GetContactSeller(c *gin.Context) {
	const op = "GetContactSeller"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/cars", session.FlashError, "Seller not found.")
		return
	}
	seller, err := impl.inventory.GetSeller(c, id)
	if errors.Is(err, inventory.ErrSellerNotFound) {
		redirectWithFlash(c, "/cars", session.FlashError, "Seller not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"seller":  seller,
		"notices": popNotices(c),
	})
}

// PostContactSeller 將表單轉給賣家，寄信失敗不影響結果
func (impl *ServerImpl) PostContactSeller(c *gin.Context) {
	const op = "PostContactSeller"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/cars", session.FlashError, "Seller not found.")
		return
	}
	seller, err := impl.inventory.GetSeller(c, id)
	if errors.Is(err, inventory.ErrSellerNotFound) {
		redirectWithFlash(c, "/cars", session.FlashError, "Seller not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	impl.notifier.Notify(c, notify.Inquiry{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Message:     c.PostForm("message"),
		SellerName:  seller.Name,
		SellerEmail: seller.ContactEmail,
		SellerPhone: seller.Phone,
		CarTitle:    c.PostForm("car_title"),
	})
	redirectWithFlash(c, "/cars", session.FlashSuccess, fmt.Sprintf("Message sent to %s successfully!", seller.Name))
}

// PostSendMessage 嘗試寄信給賣家後導向 WhatsApp 對話
func (impl *ServerImpl) PostSendMessage(c *gin.Context) {
	link, _ := impl.notifier.Notify(c, notify.Inquiry{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Message:     c.PostForm("message"),
		SellerName:  c.PostForm("seller_name"),
		SellerEmail: c.PostForm("seller_email"),
		SellerPhone: c.PostForm("seller_phone"),
		CarTitle:    c.PostForm("car_title"),
	})
	c.Redirect(http.StatusFound, link)
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formFile 取得單一上傳檔案，沒有檔案時回傳 nil
func formFile(c *gin.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

func formFiles(c *gin.Context, name string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[name]
}

func internalError(c *gin.Context, op string, err error) {
	slog.Error("Fail to handle request", slog.String("op", op), slog.String("path", c.Request.URL.Path), slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
