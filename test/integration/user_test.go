package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegister(t *testing.T) {
	base := BaseURL(t)

	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("normal_user")
		resp := PostJSON(t, base+"/users/register", map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "테스트",
		}, "")
		require.Equal(t, 0, resp.Code, resp.Message)

		var data UserData
		Decode(t, resp, &data)
		assert.NotZero(t, data.ID)
		assert.Equal(t, email, data.Email)
	})

	t.Run("重复邮箱注册应失败", func(t *testing.T) {
		email := GenerateTestEmail("duplicate_user")
		req := map[string]string{"email": email, "password": "Test1234", "nickname": "중복회원"}

		require.Equal(t, 0, PostJSON(t, base+"/users/register", req, "").Code)
		resp := PostJSON(t, base+"/users/register", req, "")
		assert.Equal(t, 40003, resp.Code)
	})

	t.Run("参数校验失败", func(t *testing.T) {
		resp := PostJSON(t, base+"/users/register", map[string]string{
			"email":    "not-an-email",
			"password": "short",
			"nickname": "x",
		}, "")
		assert.Equal(t, 40900, resp.Code)
	})
}

func TestUserAuthFlow(t *testing.T) {
	base := BaseURL(t)
	email, token := RegisterTestUser(t, "인증회원")

	meResp := GetJSON(t, base+"/users/me", token)
	require.Equal(t, 0, meResp.Code, meResp.Message)
	var me UserData
	Decode(t, meResp, &me)
	assert.Equal(t, email, me.Email)

	t.Run("未登录访问受保护接口", func(t *testing.T) {
		assert.Equal(t, 40100, GetJSON(t, base+"/users/me", "").Code)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		require.Equal(t, 0, PostJSON(t, base+"/users/logout", nil, token).Code)
		assert.NotEqual(t, 0, GetJSON(t, base+"/users/me", token).Code)
	})
}
