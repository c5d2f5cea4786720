package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/storefront/internal/application/user"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
type UserHandler struct {
	registerUseCase      *appuser.RegisterUseCase
	loginUseCase         *appuser.LoginUseCase
	logoutUseCase        *appuser.LogoutUseCase
	getProfileUseCase    *appuser.GetProfileUseCase
	updateAddressUseCase *appuser.UpdateAddressUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	getProfileUseCase *appuser.GetProfileUseCase,
	updateAddressUseCase *appuser.UpdateAddressUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase:      registerUseCase,
		loginUseCase:         loginUseCase,
		logoutUseCase:        logoutUseCase,
		getProfileUseCase:    getProfileUseCase,
		updateAddressUseCase: updateAddressUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新用户账号
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.UserResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误(40900)/邮箱已存在(40003)"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.UserResponse{
		ID:       result.ID,
		Email:    result.Email,
		Nickname: result.Nickname,
	})
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误(40103)"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并将当前Access Token加入黑名单
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(
		c.Request.Context(),
		middleware.GetUserID(c),
		middleware.GetAccessToken(c),
		middleware.GetTokenExpiresAt(c),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Me 当前用户信息
// @Summary      当前用户信息
// @Description  包含默认收货地址，结算页预填使用
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	result, err := h.getProfileUseCase.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateAddress 保存默认收货地址
// @Summary      保存默认收货地址
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddressRequest true "收货地址"
// @Success      200 {object} response.Response
// @Router       /api/v1/users/me/address [put]
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	var req dto.AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.updateAddressUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), appuser.AddressDTO{
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		PostalCode:    req.PostalCode,
		Address:       req.Address,
		AddressDetail: req.AddressDetail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
