package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestNormalizeLanguage(t *testing.T) {
	tag, err := NormalizeLanguage("EN-us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", tag)

	tag, err = NormalizeLanguage(" nl ")
	require.NoError(t, err)
	assert.Equal(t, "nl", tag)

	_, err = NormalizeLanguage("not a tag")
	requireCode(t, err, apperrors.CodeValidationFailed, "Invalid language tag.")
}

func TestMachinesAndLinks(t *testing.T) {
	f := newFixture(t)

	_, err := f.machines.Create(f.ctx, identityOf(f.agent), MachineInput{Name: "Packer"})
	requireCode(t, err, apperrors.CodeForbidden, "")

	packer, err := f.machines.Create(f.ctx, identityOf(f.admin), MachineInput{Name: " Packer ", Type: "Packing"})
	require.NoError(t, err)
	assert.Equal(t, "Packer", packer.Name)

	linked, err := f.machines.LinkCompany(f.ctx, identityOf(f.admin), f.globex.ID, packer.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, packer.ID, linked[0].ID)

	_, err = f.machines.LinkCompany(f.ctx, identityOf(f.admin), "missing", packer.ID)
	requireCode(t, err, apperrors.CodeNotFound, "Company does not exist.")

	mine, err := f.machines.ListMine(f.ctx, identityOf(f.outsider))
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, err := f.machines.List(f.ctx, identityOf(f.agent))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.machines.List(f.ctx, identityOf(f.customer))
	requireCode(t, err, apperrors.CodeForbidden, "")

	// Once linked, the outsider can file tickets on the machine.
	_, err = f.tickets.CreateTicket(f.ctx, identityOf(f.outsider), TicketCreateInput{MachineID: packer.ID, Issue: "Stops"})
	require.NoError(t, err)
}

func TestSolutions(t *testing.T) {
	f := newFixture(t)

	_, err := f.machines.CreateSolution(f.ctx, identityOf(f.customer), SolutionInput{MachineID: f.machine.ID, Language: "en", Issue: "x"})
	requireCode(t, err, apperrors.CodeForbidden, "")

	created, err := f.machines.CreateSolution(f.ctx, identityOf(f.agent), SolutionInput{
		MachineID:   f.machine.ID,
		Language:    "en-gb",
		Issue:       "Belt slips",
		Description: "**Tighten** the belt.\n\n<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.Equal(t, "en-GB", created.Language)
	assert.Contains(t, created.DescriptionHTML, "<strong>Tighten</strong>")
	assert.NotContains(t, created.DescriptionHTML, "<script>")

	_, err = f.machines.CreateSolution(f.ctx, identityOf(f.agent), SolutionInput{
		MachineID: f.machine.ID, Language: "nl", Issue: "Band slipt", Description: "Span de band.",
	})
	require.NoError(t, err)

	all, err := f.machines.ListSolutions(f.ctx, identityOf(f.customer), f.machine.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	dutch, err := f.machines.ListSolutions(f.ctx, identityOf(f.customer), f.machine.ID, "NL")
	require.NoError(t, err)
	require.Len(t, dutch, 1)
	assert.Equal(t, "Band slipt", dutch[0].Issue)

	_, err = f.machines.ListSolutions(f.ctx, identityOf(f.outsider), f.machine.ID, "")
	requireCode(t, err, apperrors.CodeForbidden, "Machine does not belong to your company.")

	staffView, err := f.machines.ListSolutions(f.ctx, identityOf(f.agent2), f.machine.ID, "")
	require.NoError(t, err)
	assert.Len(t, staffView, 2)
}
