package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-directory-api/internal/application/ports"
	"user-directory-api/internal/application/services"
	domain "user-directory-api/internal/domain/user"
	"user-directory-api/internal/interface/api/rest/dto/user"
)

// multipart framing on top of the image itself
const maxProfileRequestSize = services.MaxProfileSize + 1<<20

type ProfileController struct {
	profileService ports.ProfileService
}

func NewProfileController(
	r *gin.Engine,
	profileService ports.ProfileService,
	auth gin.HandlerFunc,
) *ProfileController {
	pc := &ProfileController{profileService: profileService}

	r.POST(RouteUserProfile, auth, pc.UploadProfileHandler)

	return pc
}

func (pc *ProfileController) UploadProfileHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxProfileRequestSize)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(domain.ErrProfileTooLarge)
			return
		}
		_ = c.Error(fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	u, err := pc.profileService.Upload(c.Request.Context(), c.Param("id"), fh)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := user.ToResponseUser(*u)
	resp.ProfileURL = pc.profileService.ProfileURL(u.Profile)

	c.JSON(http.StatusOK, user.ResponseData{
		Status:  user.StatusSuccess,
		Message: "Profile uploaded successfully",
		Data:    &resp,
	})
}
