package pethubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/pethub-api/internal/domains/pets/adapters/http/mapper"
	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// ParentAPI manages sire and dam records.
type ParentAPI struct {
	apiConfig
	service petsports.ParentService
}

// NewParentAPI creates a ParentAPI.
func NewParentAPI(service petsports.ParentService, opts ...Option) ParentAPI {
	return ParentAPI{apiConfig: newAPIConfig(opts), service: service}
}

// Get /api/parents/
func (api *ParentAPI) ListParents(c *gin.Context) {
	query, err := mapper.ParseParentListQuery(c.Request.URL.Query(), api.pageSize)
	if err != nil {
		api.respondError(c, err)
		return
	}
	page, err := api.service.ListParents(c.Request.Context(), query)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, *page, mapper.ToParents(page.Items)))
}

// Post /api/parents/
func (api *ParentAPI) CreateParent(c *gin.Context) {
	payload, err := mapper.DecodeParent(c.Request.Body)
	if err != nil {
		api.respondError(c, err)
		return
	}
	saved, err := api.service.CreateParent(c.Request.Context(), payload.ToCreateInput())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ToParent(saved))
}

// Get /api/parents/:parentId/
func (api *ParentAPI) GetParent(c *gin.Context) {
	id, ok := api.idParam(c, "parentId")
	if !ok {
		return
	}
	parent, err := api.service.GetParent(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToParent(parent))
}

// Put /api/parents/:parentId/
func (api *ParentAPI) UpdateParent(c *gin.Context) {
	api.update(c, false)
}

// Patch /api/parents/:parentId/
func (api *ParentAPI) PartialUpdateParent(c *gin.Context) {
	api.update(c, true)
}

func (api *ParentAPI) update(c *gin.Context, partial bool) {
	id, ok := api.idParam(c, "parentId")
	if !ok {
		return
	}
	payload, err := mapper.DecodeParent(c.Request.Body)
	if err != nil {
		api.respondError(c, err)
		return
	}
	updated, err := api.service.UpdateParent(c.Request.Context(), payload.ToUpdateInput(id, partial))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToParent(updated))
}

// Delete /api/parents/:parentId/
func (api *ParentAPI) DeleteParent(c *gin.Context) {
	id, ok := api.idParam(c, "parentId")
	if !ok {
		return
	}
	if err := api.service.DeleteParent(c.Request.Context(), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
