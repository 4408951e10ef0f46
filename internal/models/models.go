package models

import (
	"time"
)

// Product is a sellable catalog item. Stock is only mutated through
// conditional updates so it can never drop below zero.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string    `gorm:"not null"                    json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                    json:"price"`
	Category    string    `gorm:"index"                       json:"category"`
	Stock       int       `gorm:"not null;check:stock >= 0"   json:"stock"`
	Active      bool      `gorm:"not null;default:true"       json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Telephone    string `json:"telephone"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Token     string    `gorm:"unique;not null"     json:"token"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

// CartItem carries a snapshot of the product name/price taken when the
// line was first added; later catalog edits do not touch it.
type CartItem struct {
	ID        uint    `gorm:"primaryKey"                             json:"id"`
	UserID    uint    `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Name      string  `gorm:"not null"                               json:"name"`
	Price     float64 `gorm:"not null"                               json:"price"`
	Quantity  uint    `gorm:"default:1;check:quantity > 0"           json:"quantity"`
}

// Order is immutable after checkout except for Status/UpdatedAt.
// UserID is nil for guest orders, which are looked up later by id plus
// the WhatsApp number given at checkout.
type Order struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientName     string      `gorm:"not null"                 json:"client_name"`
	ClientWhatsApp string      `gorm:"not null"                 json:"client_whatsapp"`
	UserID         *uint       `gorm:"index"                    json:"user_id"`
	CantinaID      uint        `gorm:"index;not null"           json:"cantina_id"`
	PaymentMethod  string      `gorm:"not null"                 json:"payment_method"`
	PixKeyType     string      `json:"pix_key_type,omitempty"`
	PixKeyValue    string      `json:"pix_key_value,omitempty"`
	PixOwnerName   string      `json:"pix_owner_name,omitempty"`
	Status         string      `gorm:"index;not null"           json:"status"`
	Total          float64     `gorm:"not null"                 json:"total"`
	Items          []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
	CreatedAt      time.Time   `gorm:"index"                    json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem freezes name and price at purchase time.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                   json:"id"`
	OrderID   uint    `gorm:"index;not null"               json:"order_id"`
	ProductID uint    `gorm:"not null"                     json:"product_id"`
	Name      string  `gorm:"not null"                     json:"name"`
	Price     float64 `gorm:"not null"                     json:"price"`
	Quantity  uint    `gorm:"default:1;check:quantity > 0" json:"quantity"`
}

// Cantina is a booth of the canteen with its own PIX key.
type Cantina struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type PixConfig struct {
	ID        uint   `gorm:"primaryKey"        json:"id"`
	CantinaID uint   `gorm:"uniqueIndex;not null" json:"cantina_id"`
	KeyType   string `gorm:"not null"          json:"key_type"`
	KeyValue  string `gorm:"not null"          json:"key_value"`
	OwnerName string `gorm:"not null"          json:"owner_name"`
}

// PixSelection is a single row (id 1) pointing at the cantina new orders
// are tagged with. Read through the repo accessor, never cached.
type PixSelection struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CantinaID uint `gorm:"not null"   json:"cantina_id"`
}

func All() []any {
	return []any{
		&Product{},
		&User{},
		&RefreshToken{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Cantina{},
		&PixConfig{},
		&PixSelection{},
	}
}
