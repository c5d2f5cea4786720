package order

import (
	"time"
)

// Status 订单状态
// 使用字符串枚举存储，便于直接在后台和日志中阅读
type Status string

const (
	StatusPending         Status = "PENDING"          // 결제대기(后台手动创建/待受理)
	StatusPendingDelivery Status = "PENDING_DELIVERY" // 배송준비중(支付确认后的初始状态)
	StatusDelivering      Status = "DELIVERING"       // 배송중
	StatusCompleted       Status = "COMPLETED"        // 배송완료
	StatusCancelling      Status = "CANCELLING"       // 취소요청(用户申请取消，等待后台处理)
	StatusCancelled       Status = "CANCELLED"        // 취소완료
)

// transitions 合法的状态流转
var transitions = map[Status][]Status{
	StatusPending:         {StatusPendingDelivery, StatusCancelled},
	StatusPendingDelivery: {StatusDelivering, StatusCancelling, StatusCancelled},
	StatusDelivering:      {StatusCompleted},
	StatusCancelling:      {StatusCancelled, StatusPendingDelivery}, // 拒绝取消时退回配送准备
	StatusCompleted:       {},
	StatusCancelled:       {},
}

// Valid 是否为已定义的状态
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Label 前台展示文案
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "결제대기"
	case StatusPendingDelivery:
		return "배송준비중"
	case StatusDelivering:
		return "배송중"
	case StatusCompleted:
		return "배송완료"
	case StatusCancelling:
		return "취소요청"
	case StatusCancelled:
		return "취소완료"
	default:
		return "알 수 없음"
	}
}

// IsTerminal 是否为终态
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransition 检查from→to是否合法
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Delivery 收货信息(下单时的快照，1:1挂在订单上)
type Delivery struct {
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postalCode"`
	Address       string `json:"address"`
	AddressDetail string `json:"addressDetail"`
	Memo          string `json:"memo,omitempty"`
}

// Order 订单实体(聚合根)
// 说明:
// 1. OrderID为业务主键(YYYYMMDD####)，沿用结账时生成的编号
// 2. Content保存下单时的商品行与价格明细(JSON)，商品后续改价或删除不影响历史订单
// 3. 订单只在支付确认成功后创建，因此初始状态为PENDING_DELIVERY
type Order struct {
	ID              uint
	OrderID         string
	UserID          uint
	Status          Status
	PaymentKey      string
	TotalAmount     int64
	Content         Content
	Delivery        Delivery
	TrackingCompany string
	TrackingNumber  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Content 订单内容快照
type Content struct {
	OrderName string    `json:"orderName"`
	Lines     []Line    `json:"lines"`
	Price     Breakdown `json:"price"`
}

// NewFromStaging 根据临时订单创建正式订单
func NewFromStaging(tmp *TemporaryOrder, paymentKey string) *Order {
	now := time.Now()
	return &Order{
		OrderID:     tmp.OrderID,
		UserID:      tmp.UserID,
		Status:      StatusPendingDelivery,
		PaymentKey:  paymentKey,
		TotalAmount: tmp.Amount,
		Content: Content{
			OrderName: tmp.Snapshot.OrderName,
			Lines:     tmp.Snapshot.Lines,
			Price:     tmp.Snapshot.Price,
		},
		Delivery:  tmp.Snapshot.Delivery,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	return CanTransition(o.Status, target)
}

// TransitionTo 状态转换，返回转换前的状态(用于CAS更新)
func (o *Order) TransitionTo(target Status) (Status, error) {
	if !o.CanTransitionTo(target) {
		return o.Status, ErrInvalidStatusTransition
	}
	prev := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	return prev, nil
}

// RequestCancel 用户申请取消
// 只有配送准备中的订单可以申请，其余状态一律拒绝且不修改状态
func (o *Order) RequestCancel() (Status, error) {
	if o.Status != StatusPendingDelivery {
		return o.Status, ErrCancelNotAllowed
	}
	return o.TransitionTo(StatusCancelling)
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

// StockRestores 取消完成时需要恢复的库存(productID→数量)
func (o *Order) StockRestores() map[uint]int {
	return quantitiesByProduct(o.Content.Lines)
}

func quantitiesByProduct(lines []Line) map[uint]int {
	qty := make(map[uint]int, len(lines))
	for _, line := range lines {
		qty[line.ProductID] += line.Quantity
	}
	return qty
}

// TrackingUpdate 运单信息局部更新，nil字段保持不变
type TrackingUpdate struct {
	Company *string
	Number  *string
}

// IsEmpty 是否没有任何字段需要更新
func (u TrackingUpdate) IsEmpty() bool {
	return u.Company == nil && u.Number == nil
}

// Apply 应用到订单实体
func (u TrackingUpdate) Apply(o *Order) {
	if u.Company != nil {
		o.TrackingCompany = *u.Company
	}
	if u.Number != nil {
		o.TrackingNumber = *u.Number
	}
	o.UpdatedAt = time.Now()
}
