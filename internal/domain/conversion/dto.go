package conversion

// ConvertRequest carries caller-supplied client fields. Email is
// optional: when absent it is resolved from the lead's originating
// conversation. Password is mandatory and is stored only as a bcrypt
// hash on the approval request.
type ConvertRequest struct {
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}
