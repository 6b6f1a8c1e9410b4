package transport

type CreateItemRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type UpdateItemRequest struct {
	ItemID int64  `json:"itemId"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
}

// CartRequest is the body of addToCart and removeFromCart. The user always
// comes from the access token.
type CartRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type ClearCartResponse struct {
	Removed int64 `json:"removed"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
	Role        string `json:"role"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
