//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/pethub-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

const uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

type petDetail struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Breed struct {
		Name string `json:"name"`
	} `json:"breed"`
	FullyVaccinated bool `json:"fully_vaccinated"`
}

type petPage struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestPetHubWebContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	breedMatcher := matchers.Map{
		"id":            matchers.Term(pacttest.ExampleBreed, uuidPattern),
		"name":          matchers.Like(pacttest.ExampleBreedName),
		"description":   matchers.Like(""),
		"size_category": matchers.Term("medium", "small|medium|large|xlarge"),
	}
	detailMatcher := matchers.Map{
		"id":                      matchers.Term(pacttest.ExistingPetID, uuidPattern),
		"name":                    matchers.Like(pacttest.ExamplePetName),
		"breed":                   breedMatcher,
		"price":                   matchers.Term(pacttest.ExamplePrice, `\d+\.\d{2}`),
		"gender":                  matchers.Term("male", "male|female|unknown"),
		"status":                  matchers.Term("available", "available|reserved|sold"),
		"rabies_vaccination_date": matchers.Term("2024-03-01", `\d{4}-\d{2}-\d{2}`),
		"fully_vaccinated":        matchers.Like(false),
		"lifestyle":               matchers.EachLike("family_friendly", 1),
	}
	listItemMatcher := matchers.Map{
		"id":                  matchers.Term(pacttest.ExistingPetID, uuidPattern),
		"name":                matchers.Like(pacttest.ExamplePetName),
		"gender":              matchers.Like("male"),
		"champions_bloodline": matchers.Like(false),
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalogEmpty).
		UponReceiving("a request to create a pet").
		WithRequest("POST", "/api/pets/", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleCreatePayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(detailMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to fetch an existing pet").
		WithRequest("GET", "/api/pets/"+pacttest.ExistingPetID+"/").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(detailMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetMissing).
		UponReceiving("a request for a missing pet").
		WithRequest("GET", "/api/pets/"+pacttest.MissingPetID+"/").
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateFeaturedPets).
		UponReceiving("a request for featured pets in a location").
		WithRequest("GET", "/api/pets/featured/", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("location", matchers.S(pacttest.ExampleLocation))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"count":    matchers.Like(1),
				"next":     nil,
				"previous": nil,
				"results":  matchers.EachLike(listItemMatcher, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogEmpty).
		UponReceiving("a list request with a malformed age filter").
		WithRequest("GET", "/api/pets/", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("age_months", matchers.S("young"))
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":      matchers.S("/problems/invalid-filter"),
				"parameter": matchers.S("age_months"),
				"status":    matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPetClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreatePet(ctx, pacttest.ExampleCreatePayload())
		if err != nil {
			return fmt.Errorf("create pet: %w", err)
		}
		if created.ID == "" || created.Breed.Name == "" {
			return fmt.Errorf("expected created pet with breed, got %+v", created)
		}

		fetched, err := client.GetPet(ctx, pacttest.ExistingPetID)
		if err != nil {
			return fmt.Errorf("get pet: %w", err)
		}
		if fetched.ID != pacttest.ExistingPetID {
			return fmt.Errorf("expected pet id %s, got %+v", pacttest.ExistingPetID, fetched)
		}

		if _, err := client.GetPet(ctx, pacttest.MissingPetID); err == nil {
			return fmt.Errorf("expected 404 for pet %s", pacttest.MissingPetID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.status)
		}

		page, err := client.Featured(ctx, pacttest.ExampleLocation)
		if err != nil {
			return fmt.Errorf("featured pets: %w", err)
		}
		if page.Count == 0 || len(page.Results) == 0 {
			return fmt.Errorf("expected featured pets, got %+v", page)
		}

		if err := client.List(ctx, "age_months=young"); err == nil {
			return fmt.Errorf("expected malformed filter to be rejected")
		}
		return nil
	})
	require.NoError(t, err)
}

type petClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPetClient(config pactconsumer.MockServerConfig) *petClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &petClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *petClient) CreatePet(ctx context.Context, payload map[string]any) (*petDetail, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pets/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out petDetail
	return &out, c.do(req, &out)
}

func (c *petClient) GetPet(ctx context.Context, id string) (*petDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pets/"+id+"/", nil)
	if err != nil {
		return nil, err
	}
	var out petDetail
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *petClient) Featured(ctx context.Context, location string) (*petPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pets/featured/?location="+location, nil)
	if err != nil {
		return nil, err
	}
	var out petPage
	return &out, c.do(req, &out)
}

func (c *petClient) List(ctx context.Context, rawQuery string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pets/?"+rawQuery, nil)
	if err != nil {
		return err
	}
	var out petPage
	return c.do(req, &out)
}

func (c *petClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		status := problem.Status
		if status == 0 {
			status = res.StatusCode
		}
		return apiError{status: status, title: problem.Title, detail: problem.Detail}
	}
	return json.NewDecoder(res.Body).Decode(out)
}
