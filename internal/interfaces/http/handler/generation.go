package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/domain/entity"
	"ai-content-gen-api/internal/domain/repository"
	"ai-content-gen-api/internal/interfaces/http/dto"
	"ai-content-gen-api/pkg/errors"
	"ai-content-gen-api/pkg/logger"
	"ai-content-gen-api/pkg/markdown"
)

// GenerationHandler 内容生成处理器
type GenerationHandler struct {
	svc *generation.Service
	now func() time.Time
}

// NewGenerationHandler 创建内容生成处理器
func NewGenerationHandler(svc *generation.Service) *GenerationHandler {
	return &GenerationHandler{svc: svc, now: time.Now}
}

// CreateSession 创建会话
// @Summary 创建会话
// @Tags Sessions
// @Produce json
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Router /v1/sessions [post]
func (h *GenerationHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()

	sid, view, err := h.svc.CreateSession(ctx)
	if err != nil {
		logger.Error(ctx, "failed to create session", err)
		dto.AppError(c, err)
		return
	}

	dto.Created(c, &dto.SessionResponse{
		SessionID: sid,
		View:      dto.ToViewResponse(view),
	})
}

// Options 表单可选值
// @Summary 表单可选值
// @Tags Generation
// @Produce json
// @Success 200 {object} dto.Response[dto.OptionsResponse]
// @Router /v1/options [get]
func (h *GenerationHandler) Options(c *gin.Context) {
	dto.Success(c, dto.NewOptionsResponse())
}

// Generate 提交表单并生成内容
// 生成失败时仍返回 200，视图状态为 failed
// @Summary 生成内容
// @Tags Generation
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.GenerateRequest true "表单"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/generations [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	sid := dto.BindSessionID(c)

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.svc.View(ctx, sid)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	if view.Generating() {
		dto.AppError(c, errors.ErrInFlight)
		return
	}

	out, err := h.svc.Submit(ctx, sid, req.ToFormInput())
	if err != nil {
		if !errors.IsAppError(err) {
			logger.Error(ctx, "failed to submit generation", err)
		}
		dto.AppError(c, err)
		return
	}

	resp := &dto.GenerateResponse{View: dto.ToViewResponse(out.View)}
	if out.Item != nil {
		resp.Item = dto.ToHistoryItemResponse(out.Item, h.svc.Preview(out.Item.Content))
	}
	dto.Success(c, resp)
}

// View 获取会话当前视图
// @Summary 当前展示内容
// @Tags Generation
// @Produce json
// @Param sid path string true "会话 ID"
// @Param format query string false "html 时附带渲染后的 HTML"
// @Success 200 {object} dto.Response[dto.ViewResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/view [get]
func (h *GenerationHandler) View(c *gin.Context) {
	ctx := c.Request.Context()

	view, err := h.svc.View(ctx, dto.BindSessionID(c))
	if err != nil {
		dto.AppError(c, err)
		return
	}

	resp := dto.ToViewResponse(view)
	if c.Query("format") == "html" && view.Display != "" {
		html, err := markdown.ToHTML(view.Display)
		if err != nil {
			logger.Error(ctx, "failed to render display", err)
			dto.InternalError(c, "failed to render content")
			return
		}
		resp.HTML = html
	}
	dto.Success(c, resp)
}

// History 获取会话历史（最新在前）
// @Summary 会话历史
// @Tags History
// @Produce json
// @Param sid path string true "会话 ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response[dto.HistoryListResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/history [get]
func (h *GenerationHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.svc.History(ctx, dto.BindSessionID(c))
	if err != nil {
		dto.AppError(c, err)
		return
	}

	pageReq, paged := dto.BindPage(c)
	if !paged {
		dto.Success(c, h.toHistoryList(items))
		return
	}

	result := repository.Paginate(items, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, h.toHistoryList(result.Items), meta)
}

// SelectHistory 将历史记录设为当前展示
// @Summary 选择历史记录
// @Tags History
// @Produce json
// @Param sid path string true "会话 ID"
// @Param id path string true "记录 ID"
// @Success 200 {object} dto.Response[dto.ViewResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/history/{id}/select [post]
func (h *GenerationHandler) SelectHistory(c *gin.Context) {
	view, err := h.svc.Select(c.Request.Context(), dto.BindSessionID(c), dto.BindItemID(c))
	if err != nil {
		dto.AppError(c, err)
		return
	}
	dto.Success(c, dto.ToViewResponse(view))
}

// Download 以纯文本附件下载当前展示内容
// @Summary 下载当前内容
// @Tags Generation
// @Produce plain
// @Param sid path string true "会话 ID"
// @Success 200 {string} string
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/download [get]
func (h *GenerationHandler) Download(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), dto.BindSessionID(c))
	if err != nil {
		dto.AppError(c, err)
		return
	}
	writeDownload(c, view, h.now())
}

func (h *GenerationHandler) toHistoryList(items []*entity.GeneratedItem) *dto.HistoryListResponse {
	resp := &dto.HistoryListResponse{Items: make([]*dto.HistoryItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.ToHistoryItemResponse(item, h.svc.Preview(item.Content)))
	}
	return resp
}

// DownloadFilename 下载文件名，使用毫秒时间戳
func DownloadFilename(now time.Time) string {
	return fmt.Sprintf("generated-content-%d.txt", now.UnixMilli())
}

func writeDownload(c *gin.Context, view *entity.SessionView, now time.Time) {
	if view.Display == "" {
		dto.NotFound(c, "no content to download")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DownloadFilename(now)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(view.Display))
}
