package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestCompanies(t *testing.T) {
	f := newFixture(t)

	_, err := f.companies.List(f.ctx, identityOf(f.customer))
	requireCode(t, err, apperrors.CodeForbidden, "")

	mine, err := f.companies.Mine(f.ctx, identityOf(f.customer))
	require.NoError(t, err)
	assert.Equal(t, f.acme.ID, mine.ID)

	_, err = f.companies.Create(f.ctx, identityOf(f.agent), CompanyInput{Name: "Initech"})
	requireCode(t, err, apperrors.CodeForbidden, "")

	initech, err := f.companies.Create(f.ctx, identityOf(f.admin), CompanyInput{Name: "Initech", Country: "US"})
	require.NoError(t, err)
	assert.True(t, initech.IsActive)

	list, err := f.companies.ToggleActive(f.ctx, identityOf(f.admin), initech.ID)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	for _, company := range list {
		if company.ID == initech.ID {
			assert.False(t, company.IsActive)
		}
	}

	_, err = f.companies.ToggleActive(f.ctx, identityOf(f.admin), "missing")
	requireCode(t, err, apperrors.CodeNotFound, "Company not found.")
}

func TestUsers(t *testing.T) {
	f := newFixture(t)

	users, err := f.users.ListCompanyUsers(f.ctx, identityOf(f.customer), "")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = f.users.ListCompanyUsers(f.ctx, identityOf(f.customer), f.globex.ID)
	requireCode(t, err, apperrors.CodeForbidden, "")

	_, err = f.users.ListCompanyUsers(f.ctx, identityOf(f.colleague), "")
	requireCode(t, err, apperrors.CodeForbidden, "")

	staffView, err := f.users.ListCompanyUsers(f.ctx, identityOf(f.agent), f.globex.ID)
	require.NoError(t, err)
	assert.Len(t, staffView, 1)

	toggled, err := f.users.ToggleActive(f.ctx, identityOf(f.customer), f.colleague.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = f.users.ToggleActive(f.ctx, identityOf(f.customer), f.outsider.ID)
	requireCode(t, err, apperrors.CodeForbidden, "")

	_, err = f.users.ToggleActive(f.ctx, identityOf(f.admin), f.admin.ID)
	requireCode(t, err, apperrors.CodeValidationFailed, "")
}
