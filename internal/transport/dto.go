package transport

import (
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
)

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type MergeCartRequest struct {
	Items []CartLine `json:"items"`
}

type CartResponse struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

type CartItemStatus struct {
	ProductID uint `json:"product_id"`
	InCart    bool `json:"in_cart"`
	Quantity  uint `json:"quantity"`
}

type CheckoutRequest struct {
	ClientName     string     `json:"client_name"`
	ClientWhatsApp string     `json:"client_whatsapp"`
	PaymentMethod  string     `json:"payment_method"`
	Items          []CartLine `json:"items,omitempty"`
}

type CheckoutResponse struct {
	Order        *models.Order `json:"order"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Active      *bool   `json:"active"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Active      *bool    `json:"active"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type CreateCantinaRequest struct {
	Name string `json:"name"`
}

type PixConfigRequest struct {
	KeyType   string `json:"key_type"`
	KeyValue  string `json:"key_value"`
	OwnerName string `json:"owner_name"`
}

type SelectCantinaRequest struct {
	CantinaID uint `json:"cantina_id"`
}

type CurrentPixResponse struct {
	Cantina *models.Cantina   `json:"cantina"`
	Config  *models.PixConfig `json:"config,omitempty"`
}

type SalesReport struct {
	PerProduct []repo.ProductSales `json:"per_product"`
	OrderCount int64               `json:"order_count"`
	GrandTotal float64             `json:"grand_total"`
}
