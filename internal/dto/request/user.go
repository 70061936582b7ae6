package request

import (
	"strings"
	"time"

	"backoffice/internal/data/entity"
)

// UserFormRequest is the posted user form. ID is empty when creating.
type UserFormRequest struct {
	ID        string `form:"id"`
	Username  string `form:"username" validate:"required,max=45"`
	Password1 string `form:"password1" validate:"required_without=ID,required_with=Password2,eqfield=Password2,maxbytes=72"`
	Password2 string `form:"password2" validate:"required_without=ID,required_with=Password1,eqfield=Password1"`
	RealName  string `form:"real_name" validate:"required,max=45"`
	Role      string `form:"role" validate:"required,oneof=admin manager"`
	Active    bool   `form:"active"`
	Email     string `form:"email" validate:"required,email,max=150"`
	Street    string `form:"street" validate:"max=100"`
	Postcode  string `form:"postcode" validate:"max=10"`
	City      string `form:"city" validate:"max=60"`
	Phone     string `form:"phone" validate:"max=20"`
	Birthday  string `form:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// UserFormMessages overrides the generic validator texts for the user form.
var UserFormMessages = map[string]string{
	"username.required":          "Fill login name",
	"password1.required_without": "Fill password",
	"password2.required_without": "Fill password",
	"password1.required_with":    "Fill password",
	"password2.required_with":    "Fill password",
	"password1.eqfield":          "Passwords must be same",
	"password2.eqfield":          "Passwords must be same",
	"password1.maxbytes":         "Password is too long",
	"real_name.required":         "Fill full name",
	"email.required":             "Fill email",
	"email.email":                "Fill valid email",
	"role.required":              "Select role",
	"role.oneof":                 "Select role",
	"birthday.datetime":          "Use YYYY-MM-DD",
}

// Normalize trims free-text inputs. Passwords are left untouched.
func (r *UserFormRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Username = strings.TrimSpace(r.Username)
	r.RealName = strings.TrimSpace(r.RealName)
	r.Email = strings.TrimSpace(r.Email)
	r.Street = strings.TrimSpace(r.Street)
	r.Postcode = strings.TrimSpace(r.Postcode)
	r.City = strings.TrimSpace(r.City)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Birthday = strings.TrimSpace(r.Birthday)
}

// BirthdayTime parses Birthday; an empty value yields nil.
func (r *UserFormRequest) BirthdayTime() *time.Time {
	if r.Birthday == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.Birthday)
	if err != nil {
		return nil
	}
	return &t
}

// UserFormFromEntity fills the edit form with stored values. Passwords stay empty.
func UserFormFromEntity(u *entity.User) *UserFormRequest {
	form := &UserFormRequest{
		ID:       u.ID.String(),
		Username: u.Username,
		RealName: u.RealName,
		Role:     string(u.Role),
		Active:   u.IsActive,
		Email:    u.Email,
		Street:   u.Street,
		Postcode: u.Postcode,
		City:     u.City,
		Phone:    u.Phone,
	}
	if u.Birthday != nil {
		form.Birthday = u.Birthday.Format("2006-01-02")
	}
	return form
}

// InlineEditRequest is the subset of columns editable from a grid row.
type InlineEditRequest struct {
	RealName string `form:"real_name" validate:"required,max=45"`
	Email    string `form:"email" validate:"required,email,max=150"`
	Role     string `form:"role" validate:"required,oneof=admin manager"`
	Active   bool   `form:"active"`
}

func (r *InlineEditRequest) Normalize() {
	r.RealName = strings.TrimSpace(r.RealName)
	r.Email = strings.TrimSpace(r.Email)
}
