package issuer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompanyProfile(t *testing.T) {
	ownerID := uuid.New()

	t.Run("valid profile", func(t *testing.T) {
		profile, err := NewCompanyProfile(ownerID, ProfileInput{
			CompanyName:  "Studio North LLC",
			Address:      "42 Pine St",
			CityStateZip: "Portland, OR 97201",
			Phone:        "555-0142",
			Email:        "billing@studionorth.example",
		})
		require.NoError(t, err)

		assert.Equal(t, "Studio North LLC", profile.CompanyName)
		assert.False(t, profile.IsDefault, "new profiles never self-elect as default")
	})

	t.Run("missing company name", func(t *testing.T) {
		_, err := NewCompanyProfile(ownerID, ProfileInput{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMPANY_NAME", domainErr.Code)
	})

	t.Run("whitespace-only company name", func(t *testing.T) {
		_, err := NewCompanyProfile(ownerID, ProfileInput{CompanyName: "  "})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMPANY_NAME", domainErr.Code)
	})
}

func TestCompanyProfile_Update(t *testing.T) {
	profile, err := NewCompanyProfile(uuid.New(), ProfileInput{CompanyName: "Studio North LLC"})
	require.NoError(t, err)
	profile.IsDefault = true

	err = profile.Update(ProfileInput{
		CompanyName: "Studio North Design LLC",
		Website:     "studionorth.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "Studio North Design LLC", profile.CompanyName)
	assert.Equal(t, "studionorth.example", profile.Website)
	assert.True(t, profile.IsDefault, "field edits never move the default flag")
	assert.Equal(t, 2, profile.Version)
}

func TestCompanyProfile_Snapshot(t *testing.T) {
	profile, err := NewCompanyProfile(uuid.New(), ProfileInput{
		CompanyName:  "Studio North LLC",
		Address:      "42 Pine St",
		CityStateZip: "Portland, OR 97201",
		Phone:        "555-0142",
		Email:        "billing@studionorth.example",
		Website:      "studionorth.example",
	})
	require.NoError(t, err)

	snap := profile.Snapshot()
	assert.Equal(t, "Studio North LLC", snap.CompanyName)
	assert.Equal(t, "Portland, OR 97201", snap.CityStateZip)

	// The snapshot is a copy; later profile edits must not leak into it.
	require.NoError(t, profile.Update(ProfileInput{CompanyName: "Renamed LLC"}))
	assert.Equal(t, "Studio North LLC", snap.CompanyName)
}
