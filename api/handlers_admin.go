package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealership/adapters/session"
	"dealership/inventory"
)

func (impl *ServerImpl) GetAdminDashboard(c *gin.Context) {
	const op = "GetAdminDashboard"
	cars, err := impl.inventory.AdminCars(c)
	if err != nil {
		internalError(c, op, err)
		return
	}
	username := ""
	if s := currentSession(c); s != nil {
		username = s.Get(SESSION_KEY_USERNAME)
	}
	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"cars":     cars,
		"notices":  popNotices(c),
	})
}

func (impl *ServerImpl) GetAdminSellers(c *gin.Context) {
	const op = "GetAdminSellers"
	sellers, err := impl.inventory.ListSellers(c)
	if err != nil {
		internalError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sellers": sellers,
		"notices": popNotices(c),
	})
}

func sellerInput(c *gin.Context) inventory.SellerInput {
	return inventory.SellerInput{
		Name:         c.PostForm("name"),
		ContactEmail: c.PostForm("contact_email"),
		Phone:        c.PostForm("phone"),
		Address:      c.PostForm("address"),
		About:        c.PostForm("about"),
	}
}

func (impl *ServerImpl) GetAddSeller(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields":  []string{"name", "contact_email", "phone", "address", "about", "photo"},
		"notices": popNotices(c),
	})
}

func (impl *ServerImpl) PostAddSeller(c *gin.Context) {
	const op = "PostAddSeller"
	_, err := impl.inventory.CreateSeller(c, sellerInput(c), formFile(c, "photo"))
	if errors.Is(err, inventory.ErrNameRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Seller name is required."})
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	redirectWithFlash(c, "/admin/sellers", session.FlashSuccess, "Seller added successfully!")
}

func (impl *ServerImpl) GetEditSeller(c *gin.Context) {
	const op = "GetEditSeller"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/admin/sellers", session.FlashError, "Seller not found.")
		return
	}
	seller, err := impl.inventory.GetSeller(c, id)
	if errors.Is(err, inventory.ErrSellerNotFound) {
		redirectWithFlash(c, "/admin/sellers", session.FlashError, "Seller not found.")
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

func (impl *ServerImpl) PostEditSeller(c *gin.Context) {
	const op = "PostEditSeller"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/admin/sellers", session.FlashError, "Seller not found.")
		return
	}
	err := impl.inventory.UpdateSeller(c, id, sellerInput(c), formFile(c, "photo"))
	switch {
	case errors.Is(err, inventory.ErrSellerNotFound):
		redirectWithFlash(c, "/admin/sellers", session.FlashError, "Seller not found.")
	case errors.Is(err, inventory.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Seller name is required."})
	case err != nil:
		internalError(c, op, err)
	default:
		redirectWithFlash(c, "/admin/sellers", session.FlashSuccess, "Seller updated successfully!")
	}
}

func (impl *ServerImpl) GetDeleteSeller(c *gin.Context) {
	const op = "GetDeleteSeller"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/admin/sellers", session.FlashError, "Seller not found.")
		return
	}
	err := impl.inventory.DeleteSeller(c, id)
	if errors.Is(err, inventory.ErrSellerNotFound) {
		redirectWithFlash(c, "/admin/sellers", session.FlashError, "Seller not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	redirectWithFlash(c, "/admin/sellers", session.FlashInfo, "Seller deleted.")
}

func carInput(c *gin.Context) inventory.CarInput {
	return inventory.CarInput{
		Title:             c.PostForm("title"),
		Description:       c.PostForm("description"),
		Price:             c.PostForm("price"),
		Category:          c.PostForm("category"),
		Mileage:           c.PostForm("mileage"),
		BodyCondition:     c.PostForm("body_condition"),
		FuelEfficiency:    c.PostForm("fuel_efficiency"),
		EnginePerformance: c.PostForm("engine_performance"),
		SellerID:          c.PostForm("seller_id"),
	}
}

func (impl *ServerImpl) GetAddCar(c *gin.Context) {
	const op = "GetAddCar"
	sellers, err := impl.inventory.SellerOptions(c)
	if err != nil {
		internalError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sellers": sellers,
		"notices": popNotices(c),
	})
}

func (impl *ServerImpl) PostAddCar(c *gin.Context) {
	const op = "PostAddCar"
	_, err := impl.inventory.CreateCar(c, carInput(c), formFile(c, "main_image"), formFiles(c, "images"))
	if errors.Is(err, inventory.ErrTitleRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required."})
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	redirectWithFlash(c, "/admin/", session.FlashSuccess, "Car uploaded successfully!")
}

func (impl *ServerImpl) GetEditCar(c *gin.Context) {
	const op = "GetEditCar"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
		return
	}
	detail, err := impl.inventory.GetCar(c, id)
	if errors.Is(err, inventory.ErrCarNotFound) {
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	sellers, err := impl.inventory.SellerOptions(c)
	if err != nil {
		internalError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"car":     detail.Car,
		"seller":  detail.Seller,
		"images":  detail.Images,
		"sellers": sellers,
		"notices": popNotices(c),
	})
}

func (impl *ServerImpl) PostEditCar(c *gin.Context) {
	const op = "PostEditCar"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
		return
	}
	err := impl.inventory.UpdateCar(c, id, carInput(c), formFile(c, "main_image"), formFiles(c, "images"))
	switch {
	case errors.Is(err, inventory.ErrCarNotFound):
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
	case errors.Is(err, inventory.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required."})
	case err != nil:
		internalError(c, op, err)
	default:
		redirectWithFlash(c, "/admin/", session.FlashSuccess, "Car updated successfully!")
	}
}

func (impl *ServerImpl) GetDeleteCar(c *gin.Context) {
	const op = "GetDeleteCar"
	id, ok := paramID(c, "id")
	if !ok {
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
		return
	}
	err := impl.inventory.DeleteCar(c, id)
	if errors.Is(err, inventory.ErrCarNotFound) {
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	redirectWithFlash(c, "/admin/", session.FlashInfo, "Car deleted.")
}

func (impl *ServerImpl) GetDeleteCarImage(c *gin.Context) {
	const op = "GetDeleteCarImage"
	imageID, ok := paramID(c, "image_id")
	carID, carOK := paramID(c, "car_id")
	if !carOK {
		redirectWithFlash(c, "/admin/", session.FlashError, "Car not found.")
		return
	}
	back := fmt.Sprintf("/admin/edit_car/%d", carID)
	if !ok {
		redirectWithFlash(c, back, session.FlashError, "Image not found.")
		return
	}
	err := impl.inventory.DeleteCarImage(c, carID, imageID)
	if errors.Is(err, inventory.ErrImageNotFound) {
		redirectWithFlash(c, back, session.FlashError, "Image not found.")
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	redirectWithFlash(c, back, session.FlashInfo, "Image removed.")
}
