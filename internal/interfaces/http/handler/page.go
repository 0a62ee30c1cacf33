package handler

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/domain/entity"
	"ai-content-gen-api/internal/interfaces/http/dto"
	"ai-content-gen-api/internal/interfaces/http/middleware"
	"ai-content-gen-api/pkg/errors"
	"ai-content-gen-api/pkg/logger"
	"ai-content-gen-api/pkg/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplates 解析内嵌的页面模板
func PageTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"contentTypeLabel": func(t string) string { return entity.ContentType(t).Label() },
		"clock": func(ts string) string {
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return ts
			}
			return t.Local().Format("15:04")
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// PageHandler 服务端渲染的表单页
type PageHandler struct {
	svc *generation.Service
	now func() time.Time
}

// NewPageHandler 创建表单页处理器
func NewPageHandler(svc *generation.Service) *PageHandler {
	return &PageHandler{svc: svc, now: time.Now}
}

type pageData struct {
	Options     *dto.OptionsResponse
	Form        dto.GenerateRequest
	FormError   string
	Display     string
	DisplayHTML template.HTML
	Generating  bool
	History     []*dto.HistoryItemResponse
}

// Index 渲染表单页
func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, dto.GenerateRequest{}, "")
}

// Generate 表单提交
// 不完整的表单直接重新渲染，不发起请求
func (h *PageHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.GetSessionID(c)

	var form dto.GenerateRequest
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, form, "invalid form submission")
		return
	}

	input := form.ToFormInput()
	if !input.IsComplete() {
		h.render(c, http.StatusBadRequest, form, errors.ErrIncompleteForm.Message)
		return
	}

	view, err := h.svc.View(ctx, sid)
	if err != nil {
		h.fail(c, err)
		return
	}
	if view.Generating() {
		h.render(c, http.StatusConflict, form, errors.ErrInFlight.Message)
		return
	}

	if _, err := h.svc.Submit(ctx, sid, input); err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, form, "")
}

// SelectHistory 选择历史记录后回到表单页
func (h *PageHandler) SelectHistory(c *gin.Context) {
	if _, err := h.svc.Select(c.Request.Context(), middleware.GetSessionID(c), dto.BindItemID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Download 下载当前展示内容
func (h *PageHandler) Download(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	writeDownload(c, view, h.now())
}

func (h *PageHandler) render(c *gin.Context, status int, form dto.GenerateRequest, formError string) {
	ctx := c.Request.Context()
	sid := middleware.GetSessionID(c)

	view, err := h.svc.View(ctx, sid)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.svc.History(ctx, sid)
	if err != nil {
		h.fail(c, err)
		return
	}

	data := pageData{
		Options:    dto.NewOptionsResponse(),
		Form:       form,
		FormError:  formError,
		Display:    view.Display,
		Generating: view.Generating(),
		History:    make([]*dto.HistoryItemResponse, 0, len(items)),
	}
	if view.Display != "" {
		html, err := markdown.ToHTML(view.Display)
		if err != nil {
			h.fail(c, err)
			return
		}
		// goldmark 已忽略原始 HTML
		data.DisplayHTML = template.HTML(html)
	}
	for _, item := range items {
		data.History = append(data.History, dto.ToHistoryItemResponse(item, h.svc.Preview(item.Content)))
	}

	c.HTML(status, "index.html", data)
}

func (h *PageHandler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.IsAppError(err) {
		status = errors.AsAppError(err).HTTPStatus
	}
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "page request failed", err)
	}
	c.String(status, http.StatusText(status))
}
