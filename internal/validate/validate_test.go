package validate_test

import (
	"testing"

	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamathecxder/randomail"
)

func validRegistration() models.Registration {
	return models.Registration{
		FirstName: "Ann",
		LastName:  "Lee",
		Role:      models.RoleEmployee,
		ManagerID: 5,
		Email:     "ann@example.com",
		Password:  "Secret1!",
	}
}

func fieldErrors(t *testing.T, err error) validate.Errors {
	t.Helper()

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	return errs
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	v := validate.New()

	require.NoError(t, v.Struct(models.Credentials{Email: "a@b.com", Password: "secret1"}))

	errs := fieldErrors(t, v.Struct(models.Credentials{}))
	msg, ok := errs.Field("email")
	require.True(t, ok)
	assert.Equal(t, "Email is required", msg)
	msg, ok = errs.Field("password")
	require.True(t, ok)
	assert.Equal(t, "Password is required", msg)

	errs = fieldErrors(t, v.Struct(models.Credentials{Email: "a@b.com", Password: "12345"}))
	msg, _ = errs.Field("password")
	assert.Equal(t, "Password must be at least 6 characters", msg)
}

func TestRegistration_Valid(t *testing.T) {
	t.Parallel()

	require.NoError(t, validate.New().Struct(validRegistration()))
}

func TestRegistration_RandomEmailsAccepted(t *testing.T) {
	t.Parallel()

	v := validate.New()
	for range 20 {
		form := validRegistration()
		form.Email = randomail.GenerateRandomEmail()
		require.NoError(t, v.Struct(form), "email %q", form.Email)
	}
}

func TestRegistration_FieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*models.Registration)
		field   string
		message string
	}{
		{"first name required", func(r *models.Registration) { r.FirstName = "" }, "firstName", "First Name is required"},
		{"last name too long", func(r *models.Registration) {
			r.LastName = "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijk"
		}, "lastName", "Last Name must be at most 50 characters"},
		{"role required", func(r *models.Registration) { r.Role = "" }, "role", "Role is required"},
		{"role unknown", func(r *models.Registration) { r.Role = "Boss" }, "role", "Role must be one of: Employee, Manager"},
		{"manager negative", func(r *models.Registration) { r.ManagerID = -1 }, "managerId", "Manager is invalid"},
		{"email malformed", func(r *models.Registration) { r.Email = "ann@example" }, "email", "Enter a valid email"},
		{"email with spaces", func(r *models.Registration) { r.Email = "a nn@ex.com" }, "email", "Enter a valid email"},
		{"password short", func(r *models.Registration) { r.Password = "Ab1!" }, "password", "Password must be at least 6 characters"},
		{"password no upper", func(r *models.Registration) { r.Password = "secret1!" }, "password", "Must contain at least one uppercase letter."},
		{"password no lower", func(r *models.Registration) { r.Password = "SECRET1!" }, "password", "Must contain at least one lowercase letter."},
		{"password no digit", func(r *models.Registration) { r.Password = "Secret!!" }, "password", "Must contain at least one number."},
		{"password no special", func(r *models.Registration) { r.Password = "Secret12" }, "password", "Must contain at least one special character."},
	}

	v := validate.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			form := validRegistration()
			tt.mutate(&form)

			errs := fieldErrors(t, v.Struct(form))
			require.Len(t, errs, 1)
			msg, ok := errs.Field(tt.field)
			require.True(t, ok, "expected error on %s, got %v", tt.field, errs)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestManagerZeroMeansNoManager(t *testing.T) {
	t.Parallel()

	form := validRegistration()
	form.ManagerID = 0

	require.NoError(t, validate.New().Struct(form))
}

func TestErrors_Error(t *testing.T) {
	t.Parallel()

	errs := validate.Errors{{Field: "email", Message: "Email is required"}, {Field: "password", Message: "x"}}

	assert.Equal(t, "email: Email is required; password: x", errs.Error())
	_, ok := errs.Field("role")
	assert.False(t, ok)
}

func TestPasswordProblem(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.PasswordProblem("Secret1!"))
	assert.Equal(t, "Must contain at least one uppercase letter.", validate.PasswordProblem(""))
}
