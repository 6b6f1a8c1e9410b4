package models

type Item struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"itemId"`
	Name  string `gorm:"not null"                 json:"name"`
	Price int64  `gorm:"not null"                 json:"price"`
}

func (Item) TableName() string {
	return "items"
}

// ItemImage holds an opaque image payload. Several rows may share one ItemID.
type ItemImage struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"imageId"`
	ItemID uint   `gorm:"index;not null"           json:"itemId"`
	Data   []byte `gorm:"not null"                 json:"data"`
}

func (ItemImage) TableName() string {
	return "item_images"
}

type CartLine struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID   string `gorm:"uniqueIndex:idx_cart_user_item;not null" json:"userID"`
	ItemID   uint   `gorm:"uniqueIndex:idx_cart_user_item;not null" json:"itemId"`
	Quantity int    `gorm:"not null"                                json:"quantity"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

func (User) TableName() string {
	return "users"
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Item{}, &ItemImage{}, &CartLine{}}
}
