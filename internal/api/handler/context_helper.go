package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OperatorID 从请求头提取操作人 ID，用于审计字段。
// 头缺失或不是合法 UUID 时返回零值 UUID（匿名操作人）。
func OperatorID(c *gin.Context) string {
	raw := c.GetHeader("X-Operator-Id")
	if raw == "" {
		return uuid.Nil.String()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}
