package http

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/portfolio-dev/portfolio/internal/api/http"
	catalogdomain "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/profile/service"
	"github.com/portfolio-dev/portfolio/internal/upload"
)

// multipartSlack covers form boundaries and headers on top of the file.
const multipartSlack = 64 << 10

func (h *Handler) GetContacts(c *gin.Context) {
	out, err := h.profiles.Contacts(c.Request.Context())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateContacts(c *gin.Context) {
	var req createContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}

	out, err := h.profiles.CreateContacts(c.Request.Context(), domain.Contacts{
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Github:   req.Github,
		Linkedin: req.Linkedin,
	})
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateContacts(c *gin.Context) {
	var req updateContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}

	out, err := h.profiles.UpdateContacts(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListCVs(c *gin.Context) {
	out, err := h.profiles.ListCVs(c.Request.Context())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ActiveCV(c *gin.Context) {
	out, err := h.profiles.ActiveCV(c.Request.Context())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UploadCV(c *gin.Context) {
	fh, ok := formFile(c, "cvFile", upload.MaxCVBytes, upload.ErrCVSize)
	if !ok {
		return
	}
	ct, err := upload.CheckCVPart(fh)
	if err != nil {
		apihttp.Error(c, err)
		return
	}

	up, closeFn, err := openUpload(fh, ct)
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	defer closeFn()

	out, err := h.profiles.UploadCV(c.Request.Context(), up)
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) ActivateCV(c *gin.Context) {
	var req activateCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	if !*req.IsActive {
		apihttp.Error(c, &catalogdomain.ValidationError{Field: "isActive", Message: "only activation is supported"})
		return
	}

	out, err := h.profiles.ActivateCV(c.Request.Context(), c.Param("id"))
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteCV(c *gin.Context) {
	if err := h.profiles.DeleteCV(c.Request.Context(), c.Param("id")); err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ListMessages(c *gin.Context) {
	out, err := h.profiles.ListMessages(c.Request.Context())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}

	out, err := h.profiles.CreateMessage(c.Request.Context(), domain.Message{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) GetProfileImage(c *gin.Context) {
	out, err := h.profiles.ProfileImage(c.Request.Context())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UploadProfileImage(c *gin.Context) {
	h.uploadImage(c, upload.MaxProfileImageBytes, h.profiles.SetProfileImage)
}

func (h *Handler) UploadProjectImage(c *gin.Context) {
	h.uploadImage(c, upload.MaxProjectImageBytes, h.profiles.StoreProjectImage)
}

type imageStorer func(ctx context.Context, up service.Upload) (*domain.ProfileImage, error)

func (h *Handler) uploadImage(c *gin.Context, limit int64, store imageStorer) {
	fh, ok := formFile(c, "image", limit, upload.TooLarge(limit))
	if !ok {
		return
	}
	ct, err := upload.CheckImagePart(fh, limit)
	if err != nil {
		apihttp.Error(c, err)
		return
	}

	up, closeFn, err := openUpload(fh, ct)
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	defer closeFn()

	out, err := store(c.Request.Context(), up)
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// formFile caps the request body and returns the named part. It answers
// the request itself when it returns false.
func formFile(c *gin.Context, field string, limit int64, tooLarge error) (*multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)

	fh, err := c.FormFile(field)
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			apihttp.Error(c, tooLarge)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			apihttp.Error(c, &catalogdomain.ValidationError{Field: field, Message: "file is required"})
		default:
			apihttp.Error(c, &catalogdomain.ValidationError{Field: field, Message: err.Error()})
		}
		return nil, false
	}
	return fh, true
}

func openUpload(fh *multipart.FileHeader, contentType string) (service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, nil, err
	}
	return service.Upload{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
