package order

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 订单领域错误定义
var (
	ErrOrderNotFound   = apperrors.New(apperrors.ErrCodeOrderNotFound, "주문을 찾을 수 없습니다.")
	ErrStagingNotFound = apperrors.New(apperrors.ErrCodeStagingNotFound, "결제 대기 중인 주문을 찾을 수 없습니다.")
	ErrStagingExpired  = apperrors.New(apperrors.ErrCodeStagingExpired, "주문 유효시간이 지났습니다. 다시 주문해주세요.")
	ErrZeroAmount      = apperrors.New(apperrors.ErrCodeZeroAmount, "결제 금액이 0원인 주문은 결제할 수 없습니다.")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "변경할 수 없는 주문 상태입니다.")
	ErrCancelNotAllowed        = apperrors.New(apperrors.ErrCodeCancelNotAllowed, "배송준비중인 주문만 취소할 수 있습니다.")
	ErrStatusConflict          = apperrors.New(apperrors.ErrCodeStatusConflict, "주문 상태가 이미 변경되었습니다. 새로고침 후 다시 시도해주세요.")

	ErrOrderNoGenerate        = apperrors.New(apperrors.ErrCodeInternal, "주문번호 생성에 실패했습니다.")
	ErrDailySequenceExhausted = apperrors.New(apperrors.ErrCodeSequenceExhausted, "오늘 주문 가능한 건수를 초과했습니다.")
	ErrDuplicateOrderID       = apperrors.New(apperrors.ErrCodeDuplicateEntry, "이미 사용 중인 주문번호입니다.")
	ErrOrderAlreadyExists     = apperrors.New(apperrors.ErrCodeOrderAlreadyExists, "이미 처리된 주문입니다.")

	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "주문 상품이 없습니다.")
	ErrInvalidQuantity   = apperrors.New(apperrors.ErrCodeInvalidParams, "수량은 1 이상이어야 합니다.")
	ErrInvalidOrderID    = apperrors.New(apperrors.ErrCodeInvalidParams, "주문번호 형식이 올바르지 않습니다.")
	ErrInvalidStatus     = apperrors.New(apperrors.ErrCodeInvalidParams, "주문 상태 값이 올바르지 않습니다.")
)
