package models

type Restaurant struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Cuisine  string `json:"cuisine"`
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
	Popular  bool   `gorm:"default:false"            json:"popular"`
	Discount string `json:"discount,omitempty"`
}

type MenuCategory struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID uint   `gorm:"index;not null"           json:"restaurant_id"`
	Name         string `gorm:"not null"                 json:"name"`
}

type MenuItem struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID uint    `gorm:"index;not null"           json:"restaurant_id"`
	CategoryID   uint    `gorm:"index"                    json:"category_id"`
	Name         string  `gorm:"not null"                 json:"name"`
	Description  string  `json:"description"`
	Price        float64 `gorm:"not null"                 json:"price"`
	ImageURL     string  `json:"image_url"`
	Available    bool    `gorm:"default:true"             json:"available"`
}

type Table struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID uint   `gorm:"index;not null"           json:"restaurant_id"`
	Label        string `gorm:"not null"                 json:"label"`
	Seats        int    `gorm:"not null"                 json:"seats"`
	PosX         int    `json:"pos_x"`
	PosY         int    `json:"pos_y"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
	RestaurantID *uint  `gorm:"index"                    json:"restaurant_id,omitempty"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Reservation struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint   `gorm:"index;not null"           json:"user_id"`
	RestaurantID uint   `gorm:"index;not null"           json:"restaurant_id"`
	TableID      *uint  `json:"table_id,omitempty"`
	Date         string `gorm:"not null"                 json:"date"`
	Time         string `gorm:"not null"                 json:"time"`
	PartySize    int    `gorm:"not null"                 json:"party_size"`
	Status       string `gorm:"not null;default:pending" json:"status"`
	Code         string `gorm:"unique;not null"          json:"code"`
	CreatedAt    int64  `json:"created_at"`
}

type Order struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint    `gorm:"index;not null"           json:"user_id"`
	RestaurantID uint    `gorm:"index;not null"           json:"restaurant_id"`
	Total        float64 `gorm:"not null"                 json:"total"`
	Status       string  `gorm:"not null;default:new"     json:"status"`
	Code         string  `gorm:"unique;not null"          json:"code"`
	CustomerName string  `json:"customer_name"`
	CustomerMail string  `json:"customer_email"`
	CreatedAt    int64   `json:"created_at"`
}

type OrderItem struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID    uint    `gorm:"index;not null"            json:"order_id"`
	MenuItemID uint    `gorm:"not null"                  json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `gorm:"not null"                  json:"unit_price"`
	Quantity   uint    `gorm:"not null;check:quantity>0" json:"quantity"`
}
