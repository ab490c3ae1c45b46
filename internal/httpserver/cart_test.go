package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekoshkina/webshop/internal/models"
	"github.com/ekoshkina/webshop/internal/transport"
)

func addToCart(t *testing.T, env *testEnv, userID, productID uint, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/add/1", nil)
		asUser(c, userID)
		c.SetParamNames("product_id")
		c.SetParamValues(itoa(productID))
		require.NoError(t, env.Cart.AddOne(c))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func cartItemID(t *testing.T, env *testEnv, userID, productID uint) uint {
	t.Helper()
	var item models.CartItem
	require.NoError(t, env.DB.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error)
	return item.ID
}

func TestGetCartResponse(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("tea", 10)
	addToCart(t, env, 1, p.ID, 2)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	asUser(c, 1)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, p.ID, resp.Items[0].ProductID)
	assert.Equal(t, "tea", resp.Items[0].Name)
	assert.Equal(t, uint(2), resp.Items[0].Quantity)
	assert.Equal(t, 20.0, resp.Items[0].LineTotal)
	assert.Equal(t, 20.0, resp.Total)
}

func TestAddOneUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/add/999", nil)
	asUser(c, 1)
	c.SetParamNames("product_id")
	c.SetParamValues("999")

	err := env.Cart.AddOne(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestAdjustQuantityResponseShapes(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("notebook", 10)
	addToCart(t, env, 1, p.ID, 2)
	itemID := cartItemID(t, env, 1, p.ID)

	// decrease from 2: updated shape with the new numbers
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/1", transport.AdjustQuantityRequest{Direction: "decrease"})
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(itemID))
	require.NoError(t, env.Cart.AdjustQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, true, updated["success"])
	assert.Equal(t, float64(1), updated["new_quantity"])
	assert.Equal(t, 10.0, updated["new_total"])
	assert.Equal(t, 10.0, updated["cart_total"])
	assert.NotContains(t, updated, "removed")

	// decrease from 1: removed shape, no per-line numbers
	rec, c = env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/1", transport.AdjustQuantityRequest{Direction: "decrease"})
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(itemID))
	require.NoError(t, env.Cart.AdjustQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var removed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, true, removed["success"])
	assert.Equal(t, true, removed["removed"])
	assert.Equal(t, 0.0, removed["cart_total"])
	assert.NotContains(t, removed, "new_quantity")

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdjustQuantityCrossUser(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("mug", 7)
	addToCart(t, env, 2, p.ID, 1)
	itemID := cartItemID(t, env, 2, p.ID)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/1", transport.AdjustQuantityRequest{Direction: "increase"})
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(itemID))
	require.NoError(t, env.Cart.AdjustQuantity(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "item not found", resp.Error)

	// the owner's line is untouched
	var item models.CartItem
	require.NoError(t, env.DB.First(&item, itemID).Error)
	assert.Equal(t, uint(1), item.Quantity)
}

func TestAdjustQuantityBadDirection(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("pen", 2)
	addToCart(t, env, 1, p.ID, 1)
	itemID := cartItemID(t, env, 1, p.ID)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/items/1", transport.AdjustQuantityRequest{Direction: "sideways"})
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(itemID))
	require.NoError(t, env.Cart.AdjustQuantity(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestRemoveItemResponse(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createProduct("bread", 3)
	p2 := env.createProduct("milk", 2)
	addToCart(t, env, 1, p1.ID, 1)
	addToCart(t, env, 1, p2.ID, 2)
	itemID := cartItemID(t, env, 1, p1.ID)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/cart/items/1", nil)
	asUser(c, 1)
	c.SetParamNames("id")
	c.SetParamValues(itoa(itemID))
	require.NoError(t, env.Cart.RemoveItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.RemoveItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 4.0, resp.CartTotal)
}

func TestRemoveOneAbsentIsNoop(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/remove/5", nil)
	asUser(c, 1)
	c.SetParamNames("product_id")
	c.SetParamValues("5")
	require.NoError(t, env.Cart.RemoveOne(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
