package services

import (
	"context"
	"testing"

	"cit-system/internal/dto"
	"cit-system/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStaffRepo struct {
	officers []dto.AvailableVaultOfficerDTO
}

func (f *fakeStaffRepo) FindByID(ctx context.Context, id uint64) (*entities.Staff, error) {
	return nil, nil
}

func (f *fakeStaffRepo) FindByEmail(ctx context.Context, email string) (*entities.Staff, error) {
	return nil, nil
}

func (f *fakeStaffRepo) ListVaultOfficers(ctx context.Context) ([]dto.VaultOfficerDTO, error) {
	out := make([]dto.VaultOfficerDTO, 0, len(f.officers))
	for _, o := range f.officers {
		out = append(out, dto.VaultOfficerDTO{ID: o.ID, Name: o.Name, Phone: o.Phone})
	}
	return out, nil
}

func (f *fakeStaffRepo) ListVaultOfficersWithLoad(ctx context.Context) ([]dto.AvailableVaultOfficerDTO, error) {
	return f.officers, nil
}

func TestAvailableVaultOfficersRankedByLoadThenName(t *testing.T) {
	// Хранилище отдаёт в произвольном порядке; сервис обязан отранжировать сам
	repo := &fakeStaffRepo{officers: []dto.AvailableVaultOfficerDTO{
		{ID: 1, Name: "Саидов Бахром", ActiveLoad: 3},
		{ID: 2, Name: "Каримова Нигора", ActiveLoad: 0},
		{ID: 3, Name: "Холова Мавзуна", ActiveLoad: 1},
		{ID: 4, Name: "Абдуллоев Карим", ActiveLoad: 1},
	}}
	svc := NewStaffService(repo, zap.NewNop())

	officers, err := svc.GetAvailableVaultOfficers(context.Background())
	require.NoError(t, err)
	require.Len(t, officers, 4)

	assert.EqualValues(t, 2, officers[0].ID, "наименее загруженный первым")
	assert.EqualValues(t, 4, officers[1].ID, "при равной нагрузке — по имени")
	assert.EqualValues(t, 3, officers[2].ID)
	assert.EqualValues(t, 1, officers[3].ID)
}
