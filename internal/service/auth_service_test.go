package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)

	session, err := f.auth.Login(f.ctx, "  CARLA@acme.test ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, session.User.ID)
	assert.Equal(t, f.acme.ID, session.Company.ID)
	assert.NotEmpty(t, session.AccessToken)

	identity, err := f.tokens.ParseToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.customer.Email, identity.Email)
	assert.Equal(t, domain.RoleCustomerAdmin, identity.Role)

	_, err = f.auth.Login(f.ctx, f.customer.Email, "wrong-password")
	requireCode(t, err, apperrors.CodeUnauthorized, "Password is incorrect.")

	_, err = f.auth.Login(f.ctx, "nobody@acme.test", testPassword)
	requireCode(t, err, apperrors.CodeUnauthorized, "User not found.")

	f.colleague.IsActive = false
	require.NoError(t, f.repos.Users.Update(f.ctx, f.colleague))
	_, err = f.auth.Login(f.ctx, f.colleague.Email, testPassword)
	requireCode(t, err, apperrors.CodeUnauthorized, "User is not active.")
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	input := RegisterInput{
		FirstName: "Nina",
		LastName:  "New",
		Email:     "nina@acme.test",
		Password:  "s3cretpass",
		Role:      domain.RoleCustomerEmployee,
		CompanyID: f.acme.ID,
	}

	user, err := f.auth.Register(f.ctx, identityOf(f.customer), input)
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)

	session, err := f.auth.Login(f.ctx, input.Email, input.Password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)

	input.Email = "NINA@acme.test"
	_, err = f.auth.Register(f.ctx, identityOf(f.admin), input)
	requireCode(t, err, apperrors.CodeConflict, "User with this email already exists.")

	other := input
	other.Email = "x@globex.test"
	other.CompanyID = f.globex.ID
	_, err = f.auth.Register(f.ctx, identityOf(f.customer), other)
	requireCode(t, err, apperrors.CodeForbidden, "")

	staff := input
	staff.Email = "boss@acme.test"
	staff.Role = domain.RoleVisconAdmin
	_, err = f.auth.Register(f.ctx, identityOf(f.customer), staff)
	requireCode(t, err, apperrors.CodeForbidden, "")

	_, err = f.auth.Register(f.ctx, identityOf(f.colleague), RegisterInput{Email: "y@acme.test", CompanyID: f.acme.ID})
	requireCode(t, err, apperrors.CodeForbidden, "")

	missing := input
	missing.Email = "z@void.test"
	missing.CompanyID = "no-such-company"
	_, err = f.auth.Register(f.ctx, identityOf(f.admin), missing)
	requireCode(t, err, apperrors.CodeNotFound, "Company does not exist.")
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)

	session, err := f.auth.Login(f.ctx, f.agent.Email, testPassword)
	require.NoError(t, err)
	identity, err := f.tokens.ParseToken(session.AccessToken)
	require.NoError(t, err)

	revoked, err := f.repos.Denylist.IsRevoked(f.ctx, identity.TokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.auth.Logout(f.ctx, identity))

	revoked, err = f.repos.Denylist.IsRevoked(f.ctx, identity.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMeAndChangePassword(t *testing.T) {
	f := newFixture(t)

	user, company, err := f.auth.Me(f.ctx, identityOf(f.colleague))
	require.NoError(t, err)
	assert.Equal(t, f.colleague.ID, user.ID)
	assert.Equal(t, "Acme", company.Name)

	err = f.auth.ChangePassword(f.ctx, identityOf(f.colleague), "nope", "newpassword")
	requireCode(t, err, apperrors.CodeUnauthorized, "Password is incorrect.")

	require.NoError(t, f.auth.ChangePassword(f.ctx, identityOf(f.colleague), testPassword, "newpassword"))
	_, err = f.auth.Login(f.ctx, f.colleague.Email, testPassword)
	requireCode(t, err, apperrors.CodeUnauthorized, "Password is incorrect.")
	_, err = f.auth.Login(f.ctx, f.colleague.Email, "newpassword")
	require.NoError(t, err)
}
