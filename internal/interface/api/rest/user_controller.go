package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user-directory-api/internal/application/ports"
	"user-directory-api/internal/interface/api/rest/dto/user"
	"user-directory-api/internal/interface/api/rest/validator"
	"user-directory-api/pkg/userschema"
)

type UserController struct {
	userService ports.UserService
}

// NewUserController registers the user routes; auth guards the mutating ones.
func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	auth gin.HandlerFunc,
) *UserController {
	uc := &UserController{userService: userService}

	r.GET(RouteUsers, uc.GetUsersHandler)
	r.GET(RouteUsersExport, uc.ExportUsersHandler)
	r.GET(RouteUser, uc.GetUserHandler)
	r.POST(RouteUsers, auth, uc.CreateUserHandler)
	r.PUT(RouteUser, auth, uc.UpdateUserHandler)
	r.PATCH(RouteUserStatus, auth, uc.UpdateStatusHandler)
	r.DELETE(RouteUser, auth, uc.DeleteUserHandler)

	return uc
}

func (uc *UserController) GetUsersHandler(c *gin.Context) {
	page, err := uc.userService.List(
		c.Request.Context(),
		c.Query("search"),
		validator.QueryInt(c.Query("page")),
		validator.QueryInt(c.Query("limit")),
	)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ToListResponse(page))
}

func (uc *UserController) GetUserHandler(c *gin.Context) {
	u, err := uc.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Status: user.StatusSuccess,
		Data:   ptr(user.ToResponseUser(*u)),
	})
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req userschema.Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	u, err := uc.userService.Create(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user.ResponseData{
		Status: user.StatusSuccess,
		Data:   ptr(user.ToResponseUser(*u)),
	})
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	var req userschema.Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	u, err := uc.userService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Status:  user.StatusSuccess,
		Message: "User updated successfully",
		Data:    ptr(user.ToResponseUser(*u)),
	})
}

func (uc *UserController) UpdateStatusHandler(c *gin.Context) {
	var req user.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	u, err := uc.userService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Status:  user.StatusSuccess,
		Message: "User status changed to " + string(u.Status),
		Data:    ptr(user.ToResponseUser(*u)),
	})
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	u, err := uc.userService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Status:  user.StatusSuccess,
		Message: fmt.Sprintf("User %s deleted successfully", u.DisplayName()),
	})
}

func (uc *UserController) ExportUsersHandler(c *gin.Context) {
	data, err := uc.userService.ExportAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="users-report-%d.csv"`, time.Now().UnixMilli()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func ptr[T any](v T) *T { return &v }
