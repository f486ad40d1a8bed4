package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"expenses/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

// 页面模板名
const (
	pageLogin    = "login"
	pageRegister = "register"
	pageList     = "list"
	pageForm     = "form"
)

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(2)
	},
	"day": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	},
	"percent": func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(1)
	},
	"slug": func(c models.Category) string {
		return strings.ToLower(c.String())
	},
}

// templates 每个页面与布局单独组合，避免 content 重名
type templates map[string]*template.Template

func loadTemplates() (templates, error) {
	out := templates{}
	for _, name := range []string{pageLogin, pageRegister, pageList, pageForm} {
		t, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (t templates) render(c *gin.Context, code int, name string, data interface{}) {
	c.Render(code, render.HTML{Template: t[name], Name: "layout", Data: data})
}

// layoutData 所有页面共用的数据
type layoutData struct {
	Title string
	User  string
	Error string
}
