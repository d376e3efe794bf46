package services

import (
	"context"
	"testing"
	"time"

	"cit-system/internal/dto"
	"cit-system/internal/entities"
	"cit-system/pkg/constants"
	apperrors "cit-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCrewLocationRepo struct {
	points   []entities.CrewLocation
	mirrored map[uint64][2]float64
}

func newFakeCrewLocationRepo() *fakeCrewLocationRepo {
	return &fakeCrewLocationRepo{mirrored: make(map[uint64][2]float64)}
}

func (f *fakeCrewLocationRepo) CreateInTx(ctx context.Context, tx pgx.Tx, loc *entities.CrewLocation) (*entities.CrewLocation, error) {
	loc.ID = uint64(len(f.points) + 1)
	loc.CreatedAt = time.Now()
	f.points = append(f.points, *loc)
	return loc, nil
}

func (f *fakeCrewLocationRepo) MirrorToRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64, lat, lng float64) error {
	f.mirrored[requestID] = [2]float64{lat, lng}
	return nil
}

func (f *fakeCrewLocationRepo) ListByRequest(ctx context.Context, requestID uint64) ([]entities.CrewLocation, error) {
	out := make([]entities.CrewLocation, 0)
	for _, p := range f.points {
		if p.RequestID == requestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func locationBody(requestID uint64) dto.CreateCrewLocationDTO {
	lat, lng := 38.5598, 68.7870
	return dto.CreateCrewLocationDTO{RequestID: requestID, Latitude: &lat, Longitude: &lng}
}

func TestReportLocationWhileInTransit(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	req.Status = constants.StatusInProgress
	req.MyStatus = constants.StagePickedUp

	locRepo := newFakeCrewLocationRepo()
	svc := NewCrewLocationService(&fakeTxManager{}, newFakeRequestRepo(req), locRepo, zap.NewNop())
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	res, err := svc.ReportLocation(ctx, locationBody(7))
	require.NoError(t, err)
	assert.EqualValues(t, 7, res.RequestID)
	assert.EqualValues(t, 5, res.StaffID)
	assert.Equal(t, constants.StagePickedUp, res.MyStatus)

	// Последняя точка продублирована на заявку
	mirror, ok := locRepo.mirrored[7]
	require.True(t, ok)
	assert.InDelta(t, 38.5598, mirror[0], 1e-9)
	assert.InDelta(t, 68.7870, mirror[1], 1e-9)
}

func TestReportLocationRejectedBeforePickup(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2) // стадия 1: забор не подтверждён
	svc := NewCrewLocationService(&fakeTxManager{}, newFakeRequestRepo(req), newFakeCrewLocationRepo(), zap.NewNop())
	ctx := actorContext(5, constants.RoleCommander, "Рахимов Далер")

	_, err := svc.ReportLocation(ctx, locationBody(7))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestReportLocationForbiddenForUnassignedStaff(t *testing.T) {
	req := pendingRequest(7, 1, 5, 2)
	req.Status = constants.StatusInProgress
	req.MyStatus = constants.StagePickedUp
	svc := NewCrewLocationService(&fakeTxManager{}, newFakeRequestRepo(req), newFakeCrewLocationRepo(), zap.NewNop())
	ctx := actorContext(6, constants.RoleCommander, "Другой Экипаж")

	_, err := svc.ReportLocation(ctx, locationBody(7))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)
}
