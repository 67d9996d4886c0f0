package user

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an application profile. Identity and authentication live outside
// this service; the id arrives as an opaque actor id on each request.
type User struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Budget    decimal.Decimal
	CreatedAt time.Time
}
