package models

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
}
