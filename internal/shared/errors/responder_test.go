package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func serve(t *testing.T, r *Responder, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/pets/", nil)

	r.RespondError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestProblemDetail_FlattensExtensions(t *testing.T) {
	raw, err := json.Marshal(NewValidationProblem(map[string]string{"name": "This field is required."}))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
	assert.Equal(t, map[string]any{"name": "This field is required."}, body["fields"])
	assert.NotContains(t, body, "extensions")
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrConflict.WithExtension("a", 1)
	derived := base.WithExtension("b", 2)

	assert.NotContains(t, base.Extensions, "b")
	assert.Contains(t, derived.Extensions, "a")
}

func TestResponder_UsesMappers(t *testing.T) {
	r := NewResponder(WithMappers(func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errSentinel) {
			return NewInvalidParameterProblem("age_months", "Enter a whole number."), true
		}
		return ProblemDetail{}, false
	}))

	rec, body := serve(t, r, errSentinel)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "age_months", body["parameter"])
	assert.Equal(t, "/api/pets/", body["instance"])
}

func TestResponder_HidesUnmappedCauses(t *testing.T) {
	rec, body := serve(t, NewResponder(WithBaseURI("https://pethub.example")), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred.", body["detail"])
	assert.Equal(t, "https://pethub.example"+TypeInternal, body["type"])
}
