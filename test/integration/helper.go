package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试需要启动完整服务（MySQL、Redis、API）：
//   STOREFRONT_TEST_BASE_URL=http://localhost:8080 go test -v ./test/integration/...
// 未设置时全部跳过

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserData 用户信息
type UserData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// ProductItem 商品列表项
type ProductItem struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discount_percent"`
	DiscountedPrice int64  `json:"discounted_price"`
	SoldOut         bool   `json:"sold_out"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	ProductItem
	Stock   int      `json:"stock"`
	Options []string `json:"options"`
}

// PageData 分页数据
type PageData struct {
	List       json.RawMessage `json:"list"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// CartData 购物车
type CartData struct {
	Items []struct {
		ID        uint  `json:"id"`
		ProductID uint  `json:"product_id"`
		Quantity  int   `json:"quantity"`
		LineTotal int64 `json:"line_total"`
		Available bool  `json:"available"`
	} `json:"items"`
	Subtotal int64 `json:"subtotal"`
}

// CheckoutData 结算结果（支付窗口参数）
type CheckoutData struct {
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	OrderName    string `json:"orderName"`
	CustomerName string `json:"customerName"`
}

// BaseURL API基础地址
func BaseURL(t *testing.T) string {
	t.Helper()
	base := os.Getenv("STOREFRONT_TEST_BASE_URL")
	if base == "" {
		t.Skip("未设置STOREFRONT_TEST_BASE_URL，跳过集成测试")
	}
	return base + "/api/v1"
}

// DoJSON 发送请求并解析统一响应
func DoJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, http.MethodGet, url, nil, token)
}

// GetNoRedirect 发送GET请求但不跟随302
func GetNoRedirect(t *testing.T, url string, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{
		Timeout: Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Decode 解析data字段
func Decode(t *testing.T, resp *Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), "解析data失败: %s", string(resp.Data))
}

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// RegisterTestUser 注册并登录，返回邮箱和Access Token
func RegisterTestUser(t *testing.T, nickname string) (email string, token string) {
	t.Helper()
	base := BaseURL(t)

	email = GenerateTestEmail("user")
	registerResp := PostJSON(t, base+"/users/register", map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginResp := PostJSON(t, base+"/users/login", map[string]string{
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	Decode(t, loginResp, &loginData)
	return email, loginData.AccessToken
}

// FindPurchasableProduct 找一个有库存、无选项的在售商品，没有则跳过
func FindPurchasableProduct(t *testing.T) ProductDetail {
	t.Helper()
	base := BaseURL(t)

	listResp := GetJSON(t, base+"/products?page=1&page_size=50", "")
	require.Equal(t, 0, listResp.Code, listResp.Message)

	var page PageData
	Decode(t, listResp, &page)
	var items []ProductItem
	require.NoError(t, json.Unmarshal(page.List, &items))

	for _, item := range items {
		if item.SoldOut {
			continue
		}
		detailResp := GetJSON(t, fmt.Sprintf("%s/products/%d", base, item.ID), "")
		require.Equal(t, 0, detailResp.Code, detailResp.Message)

		var detail ProductDetail
		Decode(t, detailResp, &detail)
		if len(detail.Options) == 0 && detail.Stock >= 2 {
			return detail
		}
	}
	t.Skip("没有可购买的测试商品，请先通过后台上架")
	return ProductDetail{}
}
