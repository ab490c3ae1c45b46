package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsAdmin      bool   `json:"is_admin"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  *uint   `json:"category_id"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *uint    `json:"category_id"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type AdjustQuantityRequest struct {
	Direction string `json:"direction"`
}

// AdjustQuantity answers with one of two shapes so a caller can patch its
// view in place: the updated shape carries the new numbers, the removed
// shape only confirms the deletion and the remaining cart total.
type AdjustUpdatedResponse struct {
	Success     bool    `json:"success"`
	NewQuantity uint    `json:"new_quantity"`
	NewTotal    float64 `json:"new_total"`
	CartTotal   float64 `json:"cart_total"`
}

type AdjustRemovedResponse struct {
	Success   bool    `json:"success"`
	Removed   bool    `json:"removed"`
	CartTotal float64 `json:"cart_total"`
}

type RemoveItemResponse struct {
	Success   bool    `json:"success"`
	CartTotal float64 `json:"cart_total"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type CartLineResponse struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total float64            `json:"total"`
}
