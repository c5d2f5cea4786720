package order

import (
	"github.com/xiebiao/storefront/internal/domain/order"
)

const timeLayout = "2006-01-02 15:04:05"

// OrderSummary 订单列表项
type OrderSummary struct {
	OrderID         string `json:"order_id"`
	UserID          uint   `json:"user_id,omitempty"`
	OrderName       string `json:"order_name"`
	TotalAmount     int64  `json:"total_amount"`
	Status          string `json:"status"`
	StatusLabel     string `json:"status_label"`
	Image           string `json:"image,omitempty"`
	TrackingCompany string `json:"tracking_company,omitempty"`
	TrackingNumber  string `json:"tracking_number,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// OrderDetail 订单详情
type OrderDetail struct {
	OrderSummary
	Lines    []LineDTO   `json:"lines"`
	Price    PriceDTO    `json:"price"`
	Delivery DeliveryDTO `json:"delivery"`
}

// LineDTO 订单商品行
type LineDTO struct {
	ProductID       uint   `json:"product_id"`
	Name            string `json:"name"`
	Option          string `json:"option,omitempty"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unit_price"`
	DiscountPercent int    `json:"discount_percent"`
	DiscountedPrice int64  `json:"discounted_price"`
	LineTotal       int64  `json:"line_total"`
	Image           string `json:"image,omitempty"`
}

// PriceDTO 价格明细
type PriceDTO struct {
	OriginalSubtotal int64  `json:"original_subtotal"`
	ProductDiscount  int64  `json:"product_discount"`
	Subtotal         int64  `json:"subtotal"`
	CouponCode       string `json:"coupon_code,omitempty"`
	CouponDiscount   int64  `json:"coupon_discount"`
	Total            int64  `json:"total"`
}

// DeliveryDTO 收货信息
type DeliveryDTO struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
	Memo          string `json:"memo,omitempty"`
}

// OrderPage 分页结果
type OrderPage struct {
	List     []OrderSummary
	Total    int64
	Page     int
	PageSize int
}

func toSummary(o *order.Order, withUser bool) OrderSummary {
	s := OrderSummary{
		OrderID:         o.OrderID,
		OrderName:       o.Content.OrderName,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		TrackingCompany: o.TrackingCompany,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt.Format(timeLayout),
	}
	if len(o.Content.Lines) > 0 {
		s.Image = o.Content.Lines[0].Image
	}
	if withUser {
		s.UserID = o.UserID
	}
	return s
}

func toDetail(o *order.Order, withUser bool) *OrderDetail {
	lines := make([]LineDTO, len(o.Content.Lines))
	for i, l := range o.Content.Lines {
		lines[i] = LineDTO{
			ProductID:       l.ProductID,
			Name:            l.Name,
			Option:          l.Option,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			DiscountedPrice: l.DiscountedPrice,
			LineTotal:       l.LineTotal,
			Image:           l.Image,
		}
	}
	p := o.Content.Price
	d := o.Delivery
	return &OrderDetail{
		OrderSummary: toSummary(o, withUser),
		Lines:        lines,
		Price: PriceDTO{
			OriginalSubtotal: p.OriginalSubtotal,
			ProductDiscount:  p.ProductDiscount,
			Subtotal:         p.Subtotal,
			CouponCode:       p.CouponCode,
			CouponDiscount:   p.CouponDiscount,
			Total:            p.Total,
		},
		Delivery: DeliveryDTO{
			RecipientName: d.RecipientName,
			Phone:         d.Phone,
			PostalCode:    d.PostalCode,
			Address:       d.Address,
			AddressDetail: d.AddressDetail,
			Memo:          d.Memo,
		},
	}
}

func toPage(orders []*order.Order, total int64, page, pageSize int, withUser bool) *OrderPage {
	list := make([]OrderSummary, len(orders))
	for i, o := range orders {
		list[i] = toSummary(o, withUser)
	}
	return &OrderPage{List: list, Total: total, Page: page, PageSize: pageSize}
}

// normalizePage 页码默认1，每页默认20条、最多100条
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
