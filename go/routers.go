// Package pethubserver exposes the pet catalog over HTTP with gin.
package pethubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers of every resource.
type ApiHandleFunctions struct {
	HealthAPI HealthAPI
	PetAPI    PetAPI
	MediaAPI  MediaAPI
	BreedAPI  BreedAPI
	ParentAPI ParentAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Health", http.MethodGet, "/", handleFunctions.HealthAPI.Health},

		{"ListPets", http.MethodGet, "/api/pets/", handleFunctions.PetAPI.ListPets},
		{"CreatePet", http.MethodPost, "/api/pets/", handleFunctions.PetAPI.CreatePet},
		{"ListFeaturedPets", http.MethodGet, "/api/pets/featured/", handleFunctions.PetAPI.ListFeatured},
		{"ListAvailablePets", http.MethodGet, "/api/pets/available/", handleFunctions.PetAPI.ListAvailable},
		{"ListChampionPets", http.MethodGet, "/api/pets/champions/", handleFunctions.PetAPI.ListChampions},
		{"PetFiltersInfo", http.MethodGet, "/api/pets/filters_info/", handleFunctions.PetAPI.FiltersInfo},
		{"GetPet", http.MethodGet, "/api/pets/:petId/", handleFunctions.PetAPI.GetPet},
		{"UpdatePet", http.MethodPut, "/api/pets/:petId/", handleFunctions.PetAPI.UpdatePet},
		{"PartialUpdatePet", http.MethodPatch, "/api/pets/:petId/", handleFunctions.PetAPI.PartialUpdatePet},
		{"DeletePet", http.MethodDelete, "/api/pets/:petId/", handleFunctions.PetAPI.DeletePet},

		{"ListPetPhotos", http.MethodGet, "/api/pets/:petId/photos/", handleFunctions.MediaAPI.ListPhotos},
		{"AddPetPhoto", http.MethodPost, "/api/pets/:petId/photos/", handleFunctions.MediaAPI.AddPhoto},
		{"UpdatePetPhoto", http.MethodPatch, "/api/pets/:petId/photos/:mediaId/", handleFunctions.MediaAPI.UpdatePhoto},
		{"DeletePetPhoto", http.MethodDelete, "/api/pets/:petId/photos/:mediaId/", handleFunctions.MediaAPI.DeletePhoto},
		{"ListPetVideos", http.MethodGet, "/api/pets/:petId/videos/", handleFunctions.MediaAPI.ListVideos},
		{"AddPetVideo", http.MethodPost, "/api/pets/:petId/videos/", handleFunctions.MediaAPI.AddVideo},
		{"DeletePetVideo", http.MethodDelete, "/api/pets/:petId/videos/:mediaId/", handleFunctions.MediaAPI.DeleteVideo},
		{"UploadHealthCertificate", http.MethodPut, "/api/pets/:petId/health_certificate/", handleFunctions.MediaAPI.UploadHealthCertificate},

		{"ListBreeds", http.MethodGet, "/api/breeds/", handleFunctions.BreedAPI.ListBreeds},
		{"GetBreed", http.MethodGet, "/api/breeds/:breedId/", handleFunctions.BreedAPI.GetBreed},

		{"ListParents", http.MethodGet, "/api/parents/", handleFunctions.ParentAPI.ListParents},
		{"CreateParent", http.MethodPost, "/api/parents/", handleFunctions.ParentAPI.CreateParent},
		{"GetParent", http.MethodGet, "/api/parents/:parentId/", handleFunctions.ParentAPI.GetParent},
		{"UpdateParent", http.MethodPut, "/api/parents/:parentId/", handleFunctions.ParentAPI.UpdateParent},
		{"PartialUpdateParent", http.MethodPatch, "/api/parents/:parentId/", handleFunctions.ParentAPI.PartialUpdateParent},
		{"DeleteParent", http.MethodDelete, "/api/parents/:parentId/", handleFunctions.ParentAPI.DeleteParent},
	}
}
