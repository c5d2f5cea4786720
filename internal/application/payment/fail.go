package payment

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/order"
)

const defaultFailMessage = "결제가 취소되었습니다."

// FailPaymentUseCase 支付失败回调用例
// 删除临时订单并生成前台失败页地址；临时订单不存在也视为成功
type FailPaymentUseCase struct {
	tempRepo order.TemporaryRepository
	baseURL  string
}

// NewFailPaymentUseCase 创建支付失败回调用例
func NewFailPaymentUseCase(tempRepo order.TemporaryRepository, storefrontBaseURL string) *FailPaymentUseCase {
	return &FailPaymentUseCase{
		tempRepo: tempRepo,
		baseURL:  strings.TrimRight(storefrontBaseURL, "/"),
	}
}

// FailPaymentRequest 失败回调参数
type FailPaymentRequest struct {
	UserID  uint
	OrderID string
	Code    string
	Message string
}

// Execute 返回需要302跳转的前台地址
func (uc *FailPaymentUseCase) Execute(ctx context.Context, req FailPaymentRequest) string {
	if req.OrderID != "" {
		n, err := uc.tempRepo.DeleteForUser(ctx, req.UserID, req.OrderID)
		if err != nil {
			// 清理失败不影响跳转，过期后由定时任务删除
			zap.L().Warn("支付失败回调删除临时订单失败", zap.String("order_id", req.OrderID), zap.Error(err))
		} else {
			zap.L().Info("支付失败，已删除临时订单",
				zap.String("order_id", req.OrderID),
				zap.String("code", req.Code),
				zap.Int64("deleted", n),
			)
		}
	}

	message := req.Message
	if message == "" {
		message = defaultFailMessage
	}
	return uc.baseURL + "/payments/fail?message=" + url.QueryEscape(message)
}
