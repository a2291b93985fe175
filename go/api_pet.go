package pethubserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/pethub-api/internal/domains/pets/adapters/http/mapper"
	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// IdempotencyKeyHeader lets clients retry pet creation safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// PetAPI wires HTTP transport with the pet catalog service.
type PetAPI struct {
	apiConfig
	service petsports.PetService
}

// NewPetAPI creates a PetAPI backed by the provided service.
func NewPetAPI(service petsports.PetService, opts ...Option) PetAPI {
	return PetAPI{apiConfig: newAPIConfig(opts), service: service}
}

// Get /api/pets/
func (api *PetAPI) ListPets(c *gin.Context) {
	api.list(c, pettypes.ViewAll)
}

// Get /api/pets/featured/
func (api *PetAPI) ListFeatured(c *gin.Context) {
	api.list(c, pettypes.ViewFeatured)
}

// Get /api/pets/available/
func (api *PetAPI) ListAvailable(c *gin.Context) {
	api.list(c, pettypes.ViewAvailable)
}

// Get /api/pets/champions/
func (api *PetAPI) ListChampions(c *gin.Context) {
	api.list(c, pettypes.ViewChampions)
}

func (api *PetAPI) list(c *gin.Context, view pettypes.PetView) {
	query, err := mapper.ParsePetListQuery(c.Request.URL.Query(), view, api.pageSize)
	if err != nil {
		api.respondError(c, err)
		return
	}
	page, err := api.service.ListPets(c.Request.Context(), query)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, *page, mapper.ToPetListPage(page.Items, api.urlFor(c))))
}

// Get /api/pets/filters_info/
func (api *PetAPI) FiltersInfo(c *gin.Context) {
	info, err := api.service.FiltersInfo(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToFiltersInfo(info))
}

// Get /api/pets/:petId/
func (api *PetAPI) GetPet(c *gin.Context) {
	id, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	pet, err := api.service.GetPet(c.Request.Context(), pettypes.PetIdentifier{ID: id})
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPetDetail(pet, api.urlFor(c)))
}

// Post /api/pets/
func (api *PetAPI) CreatePet(c *gin.Context) {
	payload, err := mapper.DecodePet(c.Request.Body)
	if err != nil {
		api.respondError(c, err)
		return
	}
	input, err := payload.ToCreateInput(strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	if err != nil {
		api.respondError(c, err)
		return
	}
	saved, err := api.service.CreatePet(c.Request.Context(), input)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ToPetDetail(saved, api.urlFor(c)))
}

// Put /api/pets/:petId/
func (api *PetAPI) UpdatePet(c *gin.Context) {
	api.update(c, false)
}

// Patch /api/pets/:petId/
func (api *PetAPI) PartialUpdatePet(c *gin.Context) {
	api.update(c, true)
}

func (api *PetAPI) update(c *gin.Context, partial bool) {
	id, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	payload, err := mapper.DecodePet(c.Request.Body)
	if err != nil {
		api.respondError(c, err)
		return
	}
	input, err := payload.ToUpdateInput(id, partial)
	if err != nil {
		api.respondError(c, err)
		return
	}
	updated, err := api.service.UpdatePet(c.Request.Context(), input)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToPetDetail(updated, api.urlFor(c)))
}

// Delete /api/pets/:petId/
func (api *PetAPI) DeletePet(c *gin.Context) {
	id, ok := api.idParam(c, "petId")
	if !ok {
		return
	}
	if err := api.service.DeletePet(c.Request.Context(), pettypes.PetIdentifier{ID: id}); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
