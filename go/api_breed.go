package pethubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/pethub-api/internal/domains/pets/adapters/http/mapper"
	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// BreedAPI serves read-only breed reference data.
type BreedAPI struct {
	apiConfig
	service petsports.BreedService
}

// NewBreedAPI creates a BreedAPI.
func NewBreedAPI(service petsports.BreedService, opts ...Option) BreedAPI {
	return BreedAPI{apiConfig: newAPIConfig(opts), service: service}
}

// Get /api/breeds/
func (api *BreedAPI) ListBreeds(c *gin.Context) {
	query, err := mapper.ParseBreedListQuery(c.Request.URL.Query(), api.pageSize)
	if err != nil {
		api.respondError(c, err)
		return
	}
	page, err := api.service.ListBreeds(c.Request.Context(), query)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, *page, mapper.ToBreeds(page.Items)))
}

// Get /api/breeds/:breedId/
func (api *BreedAPI) GetBreed(c *gin.Context) {
	id, ok := api.idParam(c, "breedId")
	if !ok {
		return
	}
	breed, err := api.service.GetBreed(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToBreed(*breed))
}
