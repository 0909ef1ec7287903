package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GilbertoM0/front-pagina-tienda/internal/domain"
)

func TestCatalogHandler_List(t *testing.T) {
	products := &mockProducts{products: []domain.Product{
		{ID: 1, Name: "Latte", Price: 3.5},
		{ID: 2, Name: "Mocha", Price: 4.0},
	}}
	handler := NewCatalogHandler(products, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var dto ProductListDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dto))
	assert.False(t, dto.Demo)
	assert.Len(t, dto.Products, 2)
}

func TestCatalogHandler_List_FallsBackToDemo(t *testing.T) {
	products := &mockProducts{err: errors.New("backend down")}
	handler := NewCatalogHandler(products, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var dto ProductListDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&dto))
	assert.True(t, dto.Demo)
	require.Len(t, dto.Products, 1)
	assert.Equal(t, "Producto Demo", dto.Products[0].Name)
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	products := &mockProducts{products: []domain.Product{{ID: 7, Name: "Latte", Price: 3.5}}}
	handler := NewCatalogHandler(products, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/7", nil)
	request = request.WithContext(urlParamCtx(request.Context(), "product_id", "7"))

	handler.GetProduct(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var p domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&p))
	assert.Equal(t, "Latte", p.Name)
}

func TestCatalogHandler_GetProduct_BadID(t *testing.T) {
	handler := NewCatalogHandler(&mockProducts{}, 5*time.Second, testLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/abc", nil)
	request = request.WithContext(urlParamCtx(request.Context(), "product_id", "abc"))

	handler.GetProduct(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
