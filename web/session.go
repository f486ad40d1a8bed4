package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	cookieToken = "expenses_token"
	cookieUser  = "expenses_user"
)

// setSession 登录/注册成功后写入 HttpOnly Cookie
func (h *Handler) setSession(c *gin.Context, token, name string) {
	maxAge := int(h.cfg.SessionTTL / time.Second)
	h.setCookie(c, cookieToken, token, maxAge)
	h.setCookie(c, cookieUser, url.QueryEscape(name), maxAge)
}

// clearSession 退出登录或令牌失效
func (h *Handler) clearSession(c *gin.Context) {
	h.setCookie(c, cookieToken, "", -1)
	h.setCookie(c, cookieUser, "", -1)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(c *gin.Context) string {
	token, _ := c.Cookie(cookieToken)
	return token
}

// sessionUser gin 读取 Cookie 时已做 QueryUnescape
func sessionUser(c *gin.Context) string {
	name, _ := c.Cookie(cookieUser)
	return name
}

// requireSession 未登录时跳转到登录页
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionToken(c) == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
