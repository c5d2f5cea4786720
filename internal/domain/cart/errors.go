package cart

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var (
	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeCartItemNotFound, "장바구니 상품을 찾을 수 없습니다.")
	ErrEmptyCart        = apperrors.New(apperrors.ErrCodeEmptyCart, "장바구니가 비어 있습니다.")
	ErrInvalidQuantity  = apperrors.New(apperrors.ErrCodeInvalidParams, "수량은 1 이상이어야 합니다.")
)
