package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// HeaderTotalCount carries the size of the matched set on list responses.
const HeaderTotalCount = "X-Total-Count"

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Code      ErrCode  `json:"code"`
	Error     string   `json:"error"`
	Errors    []string `json:"errors,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends data as the bare JSON body.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// SuccessWithTotal sends a list body and exposes the match count in
// X-Total-Count.
func SuccessWithTotal(c *gin.Context, data any, total int) {
	c.Header(HeaderTotalCount, strconv.Itoa(total))
	c.JSON(http.StatusOK, data)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail sends an error response with an error code and its message.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, buildError(c, code, nil))
}

// FailWithReasons sends an error response listing every failed rule.
func FailWithReasons(c *gin.Context, statusCode int, code ErrCode, reasons []string) {
	c.JSON(statusCode, buildError(c, code, reasons))
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, buildError(c, code, nil))
}

func buildError(c *gin.Context, code ErrCode, reasons []string) ErrorBody {
	return ErrorBody{
		Code:      code,
		Error:     GetMessage(code),
		Errors:    reasons,
		RequestID: RequestID(c),
	}
}
