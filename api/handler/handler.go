package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"du-console/api/middleware"
	"du-console/api/response"
	"du-console/logic/export"
	"du-console/service"
	"du-console/storage/backend"
	"du-console/types"
)

type DUHandler struct {
	duSvc      *service.DUService
	summarySvc *service.SummaryService
}

func NewDUHandler(duSvc *service.DUService, summarySvc *service.SummaryService) *DUHandler {
	return &DUHandler{
		duSvc:      duSvc,
		summarySvc: summarySvc,
	}
}

func (h *DUHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Tokens 输入框事件：切分、校验、高亮、自动补前缀
func (h *DUHandler) Tokens(c *gin.Context) {
	var req types.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}
	res, err := h.duSvc.Tokens(c.Param("profile"), req)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, res)
}

// Compile 只返回编译后的查询参数，便于页面调试与测试
func (h *DUHandler) Compile(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}
	q, tokens, err := h.duSvc.Compile(c.Param("profile"), req)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"mode":   q.Mode,
		"path":   q.Path,
		"query":  q.Encode(),
		"tokens": tokens,
	})
}

func (h *DUHandler) Search(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}
	res, err := h.duSvc.Search(c.Request.Context(), c.GetString(middleware.KeySessionID), c.Param("profile"), req)
	if err != nil {
		h.fail(c, "query failed", err)
		return
	}
	response.Success(c, res)
}

// Export 按请求体条件导出全部页
func (h *DUHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}
	f, err := h.duSvc.Export(c.Request.Context(), c.GetString(middleware.KeySessionID), c.Param("profile"), req, format)
	if err != nil {
		h.fail(c, "export failed", err)
		return
	}
	response.File(c, f.Name, f.ContentType, f.Data)
}

// ExportLast 复用本会话最近一次搜索条件
func (h *DUHandler) ExportLast(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	f, err := h.duSvc.ExportLast(c.Request.Context(), c.GetString(middleware.KeySessionID), c.Param("profile"), format)
	if err != nil {
		h.fail(c, "export failed", err)
		return
	}
	response.File(c, f.Name, f.ContentType, f.Data)
}

// Update multipart 表单：status、status_delivery、remark、可选 photo
func (h *DUHandler) Update(c *gin.Context) {
	var req types.UpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, "参数错误: "+err.Error())
		return
	}
	var photo *backend.Photo
	if fh, err := c.FormFile("photo"); err == nil {
		src, err := fh.Open()
		if err != nil {
			response.Fail(c, "照片读取失败: "+err.Error())
			return
		}
		defer src.Close()
		photo = &backend.Photo{Name: fh.Filename, Body: src}
	}
	if err := h.duSvc.Update(c.Request.Context(), c.Param("profile"), c.Param("id"), req, photo); err != nil {
		h.fail(c, "update failed", err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}

func (h *DUHandler) Delete(c *gin.Context) {
	if err := h.duSvc.Delete(c.Request.Context(), c.Param("profile"), c.Param("id")); err != nil {
		h.fail(c, "delete failed", err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}

func (h *DUHandler) Summary(c *gin.Context) {
	sum, err := h.summarySvc.Get(c.Request.Context())
	if err != nil {
		h.fail(c, "summary failed", err)
		return
	}
	response.Success(c, sum)
}

// fail 后端错误原样带出 detail/message；不合法 token 附带列表
func (h *DUHandler) fail(c *gin.Context, action string, err error) {
	log.Printf(">>> [API] %s %s (%s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(middleware.HeaderRequestID), err)
	var inv *service.InvalidTokensError
	if errors.As(err, &inv) {
		response.FailWith(c, action+": "+err.Error(), gin.H{"invalid": inv.Tokens})
		return
	}
	response.Fail(c, action+": "+err.Error())
}
