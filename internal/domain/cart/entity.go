package cart

import (
	"time"
)

// Cart 购物车(每个用户一个，首次加购时创建)
type Cart struct {
	ID        uint
	UserID    uint
	Items     []Item
	CreatedAt time.Time
}

// Item 购物车明细
// 同一商品+同一规格只保留一行，重复加购累加数量
type Item struct {
	ID        uint
	CartID    uint
	ProductID uint
	Quantity  int
	Option    string // 加购时复制的规格文本，商品无规格时为空
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem 创建购物车明细
func NewItem(cartID, productID uint, quantity int, option string) (*Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	now := time.Now()
	return &Item{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		Option:    option,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SameLine 是否与给定商品/规格属于同一行
func (i *Item) SameLine(productID uint, option string) bool {
	return i.ProductID == productID && i.Option == option
}

// FindLine 查找同商品同规格的行
func (c *Cart) FindLine(productID uint, option string) *Item {
	for idx := range c.Items {
		if c.Items[idx].SameLine(productID, option) {
			return &c.Items[idx]
		}
	}
	return nil
}

// ItemIDs 所有明细ID
func (c *Cart) ItemIDs() []uint {
	ids := make([]uint, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
