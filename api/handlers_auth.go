package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dealership/adapters/session"
	"dealership/inventory"
)

func (impl *ServerImpl) GetLogin(c *gin.Context) {
	loggedIn := false
	if s := currentSession(c); s != nil {
		loggedIn = s.Get(SESSION_KEY_USER_ID) != ""
	}
	c.JSON(http.StatusOK, gin.H{
		"logged_in": loggedIn,
		"notices":   popNotices(c),
	})
}

func (impl *ServerImpl) PostLogin(c *gin.Context) {
	const op = "PostLogin"
	user, err := impl.inventory.Authenticate(c, c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, inventory.ErrCredentialsMissing) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please enter both username and password."})
		return
	}
	if errors.Is(err, inventory.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password."})
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	s := currentSession(c)
	if s == nil {
		internalError(c, op, session.ErrSessionNotFound)
		return
	}
	// 登入時換發新的 session ID，舊的資料一律清除
	s.Regenerate()
	s.Set(SESSION_KEY_USER_ID, strconv.FormatInt(user.ID, 10))
	s.Set(SESSION_KEY_USERNAME, user.Username)
	redirectWithFlash(c, "/admin/", session.FlashSuccess, fmt.Sprintf("Welcome back, %s!", user.Username))
}

func (impl *ServerImpl) GetLogout(c *gin.Context) {
	if s := currentSession(c); s != nil {
		s.Clear()
	}
	redirectWithFlash(c, "/", session.FlashInfo, "You have logged out.")
}

func (impl *ServerImpl) GetRegister(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": popNotices(c)})
}

func (impl *ServerImpl) PostRegister(c *gin.Context) {
	const op = "PostRegister"
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")
	if username == "" || password == "" || confirm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required."})
		return
	}
	if password != confirm {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Passwords do not match."})
		return
	}
	_, err := impl.inventory.Register(c, username, password)
	if errors.Is(err, inventory.ErrUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"message": "Username already exists or database error occurred."})
		return
	}
	if err != nil {
		internalError(c, op, err)
		return
	}
	redirectWithFlash(c, "/login", session.FlashSuccess, "Account created successfully! Please log in.")
}
