package repo

import "gorm.io/gorm"

// GormRepo is the single store handle shared by the services. Every method
// takes the request context and opens its own transaction when it needs one.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
