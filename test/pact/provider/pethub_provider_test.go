//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/pethub-api/test/pact"

	pethubserver "github.com/Apurer/pethub-api/go"
	petsmemory "github.com/Apurer/pethub-api/internal/domains/pets/adapters/memory"
	petsobs "github.com/Apurer/pethub-api/internal/domains/pets/adapters/observability"
	petsworkflows "github.com/Apurer/pethub-api/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/pethub-api/internal/domains/pets/application"
	petdomain "github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/platform/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestPetHubProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogEmpty: reset,
		pacttest.StatePetMissing:   reset,
		pacttest.StatePetExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedPet(t, uuid.MustParse(pacttest.ExistingPetID), false)
			}
			return nil, nil
		},
		pacttest.StateFeaturedPets: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedPet(t, uuid.MustParse(pacttest.ExistingPetID), true)
				app.seedPet(t, uuid.New(), false)
			}
			return nil, nil
		},
	}

	err := pactprovider.NewVerifier().VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves a fresh in-memory catalog per provider state.
type contractProviderApp struct {
	mediaRoot string
	server    *httptest.Server

	mu      sync.RWMutex
	catalog *petsmemory.Catalog
	handler http.Handler
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{mediaRoot: t.TempDir()}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog := petsmemory.NewCatalog()
	catalog.SeedBreed(petdomain.Breed{
		ID:           uuid.MustParse(pacttest.ExampleBreed),
		Name:         pacttest.ExampleBreedName,
		SizeCategory: petdomain.SizeMedium,
	})
	media, err := storage.NewLocalStorage(a.mediaRoot, "/media/")
	require.NoError(t, err)

	core := petsapp.NewService(catalog.Pets(), catalog.Breeds(), catalog.Parents(),
		petsapp.WithIdempotencyStore(petsmemory.NewIdempotencyStore(0)),
		petsapp.WithMediaStorage(media),
		petsapp.WithMediaCleaner(petsworkflows.NewInlineMediaCleaner(media, logger)),
	)
	pets := petsobs.New(core)

	opts := []pethubserver.Option{
		pethubserver.WithResponder(pethubserver.NewResponder(logger)),
		pethubserver.WithMediaURL(media.URL),
	}
	handlers := pethubserver.ApiHandleFunctions{
		PetAPI:    pethubserver.NewPetAPI(pets, opts...),
		MediaAPI:  pethubserver.NewMediaAPI(pets, opts...),
		BreedAPI:  pethubserver.NewBreedAPI(petsapp.NewBreedCatalog(catalog.Breeds()), opts...),
		ParentAPI: pethubserver.NewParentAPI(petsapp.NewLineage(catalog.Parents(), nil), opts...),
	}
	router := gin.New()
	router.Use(gin.Recovery())

	a.mu.Lock()
	a.catalog = catalog
	a.handler = pethubserver.NewRouterWithGinEngine(router, handlers)
	a.mu.Unlock()
}

func (a *contractProviderApp) seedPet(t testing.TB, id uuid.UUID, featured bool) {
	t.Helper()
	breedID := uuid.MustParse(pacttest.ExampleBreed)
	price := 45000.0
	vaccinated := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	pet := petdomain.NewPet(id, pacttest.ExamplePetName)
	pet.BreedID = &breedID
	pet.Price = &price
	pet.Gender = petdomain.GenderMale
	pet.Location = pacttest.ExampleLocation
	pet.Featured = featured
	pet.RabiesVaccinated = true
	pet.RabiesVaccinationDate = &vaccinated
	pet.SetLifestyle([]petdomain.Lifestyle{petdomain.LifestyleFamilyFriendly})

	a.mu.RLock()
	catalog := a.catalog
	a.mu.RUnlock()
	_, err := catalog.Pets().Create(context.Background(), pet)
	require.NoError(t, err)
}
