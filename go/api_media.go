package pethubserver

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/pethub-api/internal/domains/pets/adapters/http/mapper"
	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
	apierrors "github.com/Apurer/pethub-api/internal/shared/errors"
)

const msgNoFile = "No file was submitted."

// MediaAPI serves pet photos, videos and the health certificate.
type MediaAPI struct {
	apiConfig
	service petsports.PetService
}

// NewMediaAPI creates a MediaAPI backed by the provided service.
func NewMediaAPI(service petsports.PetService, opts ...Option) MediaAPI {
	return MediaAPI{apiConfig: newAPIConfig(opts), service: service}
}

// Get /api/pets/:petId/photos/
func (api *MediaAPI) ListPhotos(c *gin.Context) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	photos, err := api.service.ListPhotos(c.Request.Context(), pettypes.PetIdentifier{ID: petID})
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPhotos(photos, api.urlFor(c)))
}

// Post /api/pets/:petId/photos/
func (api *MediaAPI) AddPhoto(c *gin.Context) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	upload, closeFile, ok := api.formFile(c, "image")
	if !ok {
		return
	}
	defer closeFile()

	violations := &domain.ValidationError{}
	order := formInt(c, "order", violations)
	isMain := formBool(c, "is_main", violations)
	if err := violations.Err(); err != nil {
		api.respondError(c, err)
		return
	}
	input := pettypes.AddPhotoInput{PetID: petID, File: upload}
	if order != nil {
		input.Order = *order
	}
	if isMain != nil {
		input.IsMain = *isMain
	}
	photo, err := api.service.AddPhoto(c.Request.Context(), input)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ToPhoto(*photo, api.urlFor(c)))
}

// Patch /api/pets/:petId/photos/:mediaId/
func (api *MediaAPI) UpdatePhoto(c *gin.Context) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	photoID, ok := api.idParam(c, "mediaId")
	if !ok {
		return
	}
	payload, err := mapper.DecodePhoto(c.Request.Body)
	if err != nil {
		api.respondError(c, err)
		return
	}
	photo, err := api.service.UpdatePhoto(c.Request.Context(), payload.ToUpdateInput(petID, photoID))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPhoto(*photo, api.urlFor(c)))
}

// Delete /api/pets/:petId/photos/:mediaId/
func (api *MediaAPI) DeletePhoto(c *gin.Context) {
	api.deleteMedia(c, api.service.DeletePhoto)
}

// Get /api/pets/:petId/videos/
func (api *MediaAPI) ListVideos(c *gin.Context) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	videos, err := api.service.ListVideos(c.Request.Context(), pettypes.PetIdentifier{ID: petID})
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToVideos(videos, api.urlFor(c)))
}

// Post /api/pets/:petId/videos/
func (api *MediaAPI) AddVideo(c *gin.Context) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	upload, closeFile, ok := api.formFile(c, "video")
	if !ok {
		return
	}
	defer closeFile()

	input := pettypes.AddVideoInput{PetID: petID, File: upload, Title: strings.TrimSpace(c.PostForm("title"))}
	video, err := api.service.AddVideo(c.Request.Context(), input)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ToVideo(*video, api.urlFor(c)))
}

// Delete /api/pets/:petId/videos/:mediaId/
func (api *MediaAPI) DeleteVideo(c *gin.Context) {
	api.deleteMedia(c, api.service.DeleteVideo)
}

// Put /api/pets/:petId/health_certificate/
func (api *MediaAPI) UploadHealthCertificate(c *gin.Context) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	upload, closeFile, ok := api.formFile(c, "health_certificate")
	if !ok {
		return
	}
	defer closeFile()

	pet, err := api.service.UploadHealthCertificate(c.Request.Context(), pettypes.HealthCertificateInput{PetID: petID, File: upload})
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPetDetail(pet, api.urlFor(c)))
}

func (api *MediaAPI) deleteMedia(c *gin.Context, remove func(ctx context.Context, id pettypes.MediaIdentifier) error) {
	petID, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	mediaID, ok := api.idParam(c, "mediaId")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), pettypes.MediaIdentifier{PetID: petID, MediaID: mediaID}); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// formFile opens the named multipart part; the caller closes it.
func (api *MediaAPI) formFile(c *gin.Context, field string) (pettypes.Upload, func(), bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.maxUpload)
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			api.responder.Respond(c, apierrors.ErrPayloadTooLarge.WithDetail(
				"Upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes."))
		default:
			api.respondError(c, domain.NewValidationError(field, msgNoFile))
		}
		return pettypes.Upload{}, nil, false
	}
	file, err := header.Open()
	if err != nil {
		api.respondError(c, err)
		return pettypes.Upload{}, nil, false
	}
	return toUpload(header, file), func() { _ = file.Close() }, true
}

func toUpload(header *multipart.FileHeader, file multipart.File) pettypes.Upload {
	return pettypes.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

func formInt(c *gin.Context, field string, violations *domain.ValidationError) *int {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		violations.Add(field, "A valid integer is required.")
		return nil
	}
	return &v
}

func formBool(c *gin.Context, field string, violations *domain.ValidationError) *bool {
	raw := strings.ToLower(strings.TrimSpace(c.PostForm(field)))
	if raw == "" {
		return nil
	}
	var v bool
	switch raw {
	case "on", "yes":
		v = true
	case "off", "no":
		v = false
	default:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			violations.Add(field, "Must be a valid boolean.")
			return nil
		}
		v = parsed
	}
	return &v
}
