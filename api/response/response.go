package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeOK   = 0
	CodeFail = -1
)

// Response 统一信封；业务失败同样返回 HTTP 200，由 code 区分
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Msg: "success", Data: data})
}

func Fail(c *gin.Context, msg string) {
	FailWith(c, msg, nil)
}

// FailWith 附带数据的失败响应（例如不合法的 token 列表）
func FailWith(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeFail, Msg: msg, Data: data})
}

// File 直接下载
func File(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, data)
}
