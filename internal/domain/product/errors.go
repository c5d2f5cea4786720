package product

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 商品领域错误定义
var (
	ErrProductNotFound    = apperrors.New(apperrors.ErrCodeProductNotFound, "존재하지 않는 상품입니다.")
	ErrProductUnavailable = apperrors.New(apperrors.ErrCodeProductUnavailable, "현재 구매할 수 없는 상품입니다.")
	ErrInsufficientStock  = apperrors.New(apperrors.ErrCodeInsufficientStock, "재고가 부족합니다.")
	ErrInvalidOption      = apperrors.New(apperrors.ErrCodeInvalidOption, "상품 옵션을 선택해주세요.")

	ErrInvalidPrice    = apperrors.New(apperrors.ErrCodeInvalidParams, "가격은 0보다 커야 합니다.")
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidParams, "할인율은 0~100 사이여야 합니다.")
	ErrInvalidStock    = apperrors.New(apperrors.ErrCodeInvalidParams, "재고는 0 이상이어야 합니다.")
	ErrInvalidStatus   = apperrors.New(apperrors.ErrCodeInvalidParams, "상품 상태가 올바르지 않습니다.")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "수량은 1 이상이어야 합니다.")
)
