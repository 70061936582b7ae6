package request

import "strings"

type SignInRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

var SignInMessages = map[string]string{
	"username.required": "Please enter your username or email.",
	"password.required": "Please enter your password.",
}

func (r *SignInRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}
