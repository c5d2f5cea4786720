package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回；参数校验失败时为字段错误表
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 内部原因只写日志，客户端只能看到Code和Message
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Err != nil || appErr.Code >= 50000 {
		fields := []zap.Field{
			zap.Int("code", appErr.Code),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
		}
		if appErr.Err != nil {
			fields = append(fields, zap.Error(appErr.Err))
		}
		if appErr.Code >= 50000 {
			zap.L().Error(appErr.Message, fields...)
		} else {
			zap.L().Warn(appErr.Message, fields...)
		}
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: publicMessage(appErr),
		Data:    nil,
	})
}

// publicMessage 系统类错误只返回通用提示，具体原因已写入日志
func publicMessage(appErr *apperrors.AppError) string {
	switch appErr.Code {
	case apperrors.ErrCodeInternal:
		return apperrors.ErrInternal.Message
	case apperrors.ErrCodeDatabaseError:
		return apperrors.ErrDatabaseError.Message
	case apperrors.ErrCodeRedisError:
		return apperrors.ErrRedisError.Message
	}
	return appErr.Message
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// BindError 参数绑定/校验失败响应
// validator的校验错误转换为 {字段名: 规则} 表，其他绑定错误（JSON格式错误等）返回40901
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = ruleMessage(fe)
		}
		c.JSON(http.StatusOK, Response{
			Code:    apperrors.ErrCodeInvalidParams,
			Message: apperrors.ErrInvalidParams.Message,
			Data:    fields,
		})
		return
	}

	ErrorWithCode(c, apperrors.ErrCodeBindError, apperrors.ErrBindError.Message)
}

// fieldName 使用json tag名作为字段名（需要在validator上注册TagNameFunc，否则退回到结构体字段名）
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return name
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 입력 항목입니다."
	case "email":
		return "이메일 형식이 올바르지 않습니다."
	case "min", "gte":
		return "최소값은 " + fe.Param() + " 입니다."
	case "max", "lte":
		return "최대값은 " + fe.Param() + " 입니다."
	case "oneof":
		return "허용된 값: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "형식이 올바르지 않습니다. (" + fe.Tag() + ")"
	}
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
