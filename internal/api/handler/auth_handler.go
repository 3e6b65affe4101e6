package handler

import (
	"XhsStudio/internal/api/dto"
	"XhsStudio/internal/api/middleware"
	"XhsStudio/internal/pkg/consts"
	"XhsStudio/internal/pkg/response"
	"XhsStudio/internal/pkg/util"
	"XhsStudio/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AuthHandler struct {
	authSvc service.AuthService
	cookie  middleware.SessionCookie
}

func NewAuthHandler(authSvc service.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		cookie:  cookie,
	}
}

func (s *AuthHandler) loggedIn(c *gin.Context) bool {
	_, err := s.authSvc.Current(c.Request.Context(), s.cookie.Read(c))
	return err == nil
}

// Index 已登录进入笔记管理，否则去登录页
func (s *AuthHandler) Index(c *gin.Context) {
	if s.loggedIn(c) {
		c.Redirect(http.StatusSeeOther, consts.DefaultPath)
		return
	}
	c.Redirect(http.StatusSeeOther, consts.LoginPath)
}

func (s *AuthHandler) LoginPage(c *gin.Context) {
	if s.loggedIn(c) {
		c.Redirect(http.StatusSeeOther, consts.DefaultPath)
		return
	}
	render(c, "login.html", "", gin.H{"Title": "登录"})
}

func (s *AuthHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	if err := c.ShouldBind(&loginDTO); err != nil {
		s.loginError(c, loginDTO.Username, err)
		return
	}
	if err := util.ValidateDTO(&loginDTO); err != nil {
		s.loginError(c, loginDTO.Username, err)
		return
	}
	sess, err := s.authSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		s.loginError(c, loginDTO.Username, err)
		return
	}
	s.cookie.Write(c, sess)
	c.Redirect(http.StatusSeeOther, consts.DefaultPath)
}

func (s *AuthHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if err := c.ShouldBind(&registerDTO); err != nil {
		s.loginError(c, "", err)
		return
	}
	if err := util.ValidateDTO(&registerDTO); err != nil {
		s.loginError(c, registerDTO.Username, err)
		return
	}
	if err := s.authSvc.Register(c.Request.Context(), &registerDTO); err != nil {
		s.loginError(c, registerDTO.Username, err)
		return
	}
	render(c, "login.html", "", gin.H{
		"Title":    "登录",
		"Username": registerDTO.Username,
		"Notice":   "注册成功，请登录",
	})
}

func (s *AuthHandler) Logout(c *gin.Context) {
	_ = s.authSvc.Logout(c.Request.Context(), s.cookie.Read(c))
	s.cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, consts.LoginPath)
}

// Session GET /api/session
func (s *AuthHandler) Session(c *gin.Context) {
	sess := currentSession(c)
	var out dto.SessionDTO
	if err := copier.Copy(&out, &sess.User); err != nil {
		response.Error(c, err)
		return
	}
	out.ExpiresAt = sess.ExpiresAt.Format(time.RFC3339)
	response.Success(c, out)
}

func (s *AuthHandler) loginError(c *gin.Context, username string, err error) {
	_, msg := response.Describe(err)
	render(c, "login.html", "", gin.H{
		"Title":    "登录",
		"Username": username,
		"Error":    msg,
	})
}
