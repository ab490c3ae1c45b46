package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	JTI       string `gorm:"index"               json:"jti"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `gorm:"not null"                  json:"description"`
	Price       float64 `gorm:"not null;check:price>=0"   json:"price"`
	CategoryID  *uint   `gorm:"index"                     json:"category_id"`
}

// CartItem holds one line of a user's cart. A row with quantity 0 never
// exists: the decrement paths delete the row instead.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"              json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"            json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
