package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不直接暴露HTTP状态码）
// 2. Message是面向用户的提示信息（韩语，店铺面向韩国用户）
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 预定义错误被WithErr包装后仍然可以用errors.Is判断
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithErr 复制一份错误并附加内部原因
// 预定义错误是共享变量，不能直接修改其Err字段
func (e *AppError) WithErr(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（数据库、网络等），隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapDB 包装数据库错误
func WrapDB(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal       = 50000 // 内部错误
	ErrCodeDatabaseError  = 50001 // 数据库错误
	ErrCodeRedisError     = 50002 // Redis错误
	ErrCodeGatewayError   = 50003 // 支付网关调用失败
	ErrCodeGatewayUnavail = 50004 // 支付网关熔断中

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeProductNotFound  = 40402 // 商品不存在
	ErrCodeOrderNotFound    = 40403 // 订单不存在
	ErrCodeCartItemNotFound = 40404 // 购物车项不存在
	ErrCodeStagingNotFound  = 40405 // 临时订单不存在
	ErrCodeFileNotFound     = 40406 // 文件不存在
	ErrCodePostNotFound     = 40407 // 公告/活动不存在
	ErrCodeCategoryNotFound = 40408 // 分类不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock  = 40001 // 库存不足
	ErrCodeInvalidOrderStatus = 40002 // 订单状态非法
	ErrCodeEmailDuplicate     = 40003 // 邮箱已存在
	ErrCodeWeakPassword       = 40005 // 密码强度不足
	ErrCodeInvalidCoupon      = 40006 // 优惠券无效
	ErrCodeAmountMismatch     = 40007 // 支付金额不一致
	ErrCodePaymentRejected    = 40008 // 支付被网关拒绝
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)
	ErrCodeInvalidOption      = 40010 // 商品选项非法
	ErrCodeProductUnavailable = 40011 // 商品不可购买
	ErrCodeEmptyCart          = 40012 // 购物车为空
	ErrCodeSequenceExhausted  = 40013 // 当日订单号用尽
	ErrCodeStagingExpired     = 40014 // 临时订单已过期
	ErrCodePaymentInProgress  = 40015 // 支付确认处理中
	ErrCodeOrderAlreadyExists = 40016 // 订单已存在
	ErrCodeCancelNotAllowed   = 40017 // 当前状态不允许取消
	ErrCodeStatusConflict     = 40018 // 订单状态并发冲突
	ErrCodeZeroAmount         = 40019 // 应付金额为0

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요.")
	ErrDatabaseError = New(ErrCodeDatabaseError, "데이터 처리 중 오류가 발생했습니다.")
	ErrRedisError    = New(ErrCodeRedisError, "캐시 서비스 오류가 발생했습니다.")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "로그인이 필요합니다.")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "유효하지 않은 토큰입니다.")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "토큰이 만료되었습니다.")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "이메일 또는 비밀번호가 올바르지 않습니다.")
	ErrForbidden       = New(ErrCodeForbidden, "접근 권한이 없습니다.")

	// 资源不存在
	ErrNotFound     = New(ErrCodeNotFound, "요청한 정보를 찾을 수 없습니다.")
	ErrUserNotFound = New(ErrCodeUserNotFound, "존재하지 않는 사용자입니다.")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "이미 가입된 이메일입니다.")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "비밀번호는 8~20자의 영문과 숫자를 포함해야 합니다.")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "입력값을 확인해주세요.")
	ErrBindError     = New(ErrCodeBindError, "요청 형식이 올바르지 않습니다.")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithErr(err)
}

// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
