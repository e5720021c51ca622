package workforce

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/domain/workforce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var shiftStart = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

func newShiftFixture() (*ShiftService, *MockShiftRepository, *MockEmployeeRepository, *recordingPublisher) {
	shifts := new(MockShiftRepository)
	employees := new(MockEmployeeRepository)
	events := &recordingPublisher{}
	return NewShiftService(shifts, employees, events, zap.NewNop()), shifts, employees, events
}

func TestShiftService_Create(t *testing.T) {
	svc, shifts, employees, events := newShiftFixture()
	p := newProfile(t, "Hana", "20.00")
	employees.On("FindByUserID", mock.Anything, p.UserID).Return(p, nil)
	shifts.On("FindOverlapping", mock.Anything, p.UserID, shiftStart, shiftStart.Add(8*time.Hour), mock.Anything).
		Return([]workforce.Shift{}, nil)
	shifts.On("Save", mock.Anything, mock.AnythingOfType("*workforce.Shift")).Return(nil)

	resp, err := svc.Create(adminCtx(), ShiftRequest{
		EmployeeID: p.UserID,
		StartsAt:   shiftStart,
		EndsAt:     shiftStart.Add(8 * time.Hour),
		Station:    "noodles",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hana", resp.EmployeeName)
	assert.Equal(t, "8.00", resp.Hours)
	assert.False(t, resp.Published)
	assert.Empty(t, events.events, "unpublished shifts notify nobody")
	shifts.AssertExpectations(t)
}

func TestShiftService_CreateOverlap(t *testing.T) {
	svc, shifts, employees, _ := newShiftFixture()
	p := newProfile(t, "Hana", "20.00")
	existing, err := workforce.NewShift(p.UserID, shiftStart, shiftStart.Add(6*time.Hour), "", "")
	require.NoError(t, err)
	employees.On("FindByUserID", mock.Anything, p.UserID).Return(p, nil)
	shifts.On("FindOverlapping", mock.Anything, p.UserID, mock.Anything, mock.Anything, mock.Anything).
		Return([]workforce.Shift{*existing}, nil)

	_, err = svc.Create(adminCtx(), ShiftRequest{
		EmployeeID: p.UserID,
		StartsAt:   shiftStart.Add(4 * time.Hour),
		EndsAt:     shiftStart.Add(10 * time.Hour),
	})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "SHIFT_OVERLAP", de.Code)
	shifts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestShiftService_CreateRejectsUnknownOrInactiveEmployee(t *testing.T) {
	svc, _, employees, _ := newShiftFixture()
	unknown := uuid.New()
	employees.On("FindByUserID", mock.Anything, unknown).Return(nil, shared.ErrNotFound)
	gone := newProfile(t, "Gone", "15.00")
	gone.SetActive(false)
	employees.On("FindByUserID", mock.Anything, gone.UserID).Return(gone, nil)

	var de *shared.DomainError
	_, err := svc.Create(adminCtx(), ShiftRequest{EmployeeID: unknown, StartsAt: shiftStart, EndsAt: shiftStart.Add(time.Hour)})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_EMPLOYEE", de.Code)

	_, err = svc.Create(adminCtx(), ShiftRequest{EmployeeID: gone.UserID, StartsAt: shiftStart, EndsAt: shiftStart.Add(time.Hour)})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "EMPLOYEE_INACTIVE", de.Code)
}

func TestShiftService_PublishNotifies(t *testing.T) {
	svc, shifts, employees, events := newShiftFixture()
	p := newProfile(t, "Ren", "18.00")
	shift, err := workforce.NewShift(p.UserID, shiftStart, shiftStart.Add(5*time.Hour), "broth", "")
	require.NoError(t, err)
	shifts.On("FindByID", mock.Anything, shift.ID).Return(shift, nil)
	shifts.On("Save", mock.Anything, shift).Return(nil)
	employees.On("FindAll", mock.Anything, false).Return([]workforce.EmployeeProfile{*p}, nil)

	resp, err := svc.Publish(adminCtx(), shift.ID)
	require.NoError(t, err)
	assert.True(t, resp.Published)
	assert.Equal(t, "Ren", resp.EmployeeName)
	require.Len(t, events.events, 1)
	assert.Equal(t, workforce.EventTypeShiftPublished, events.events[0].EventType())

	_, err = svc.Publish(adminCtx(), shift.ID)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATE", de.Code)
}

func TestShiftService_UpdatePublishedShiftNotifiesAgain(t *testing.T) {
	svc, shifts, employees, events := newShiftFixture()
	p := newProfile(t, "Ren", "18.00")
	shift, err := workforce.NewShift(p.UserID, shiftStart, shiftStart.Add(5*time.Hour), "", "")
	require.NoError(t, err)
	require.NoError(t, shift.Publish())
	shift.ClearDomainEvents()

	shifts.On("FindByID", mock.Anything, shift.ID).Return(shift, nil)
	shifts.On("FindOverlapping", mock.Anything, p.UserID, mock.Anything, mock.Anything, shift.ID).Return([]workforce.Shift{}, nil)
	shifts.On("Save", mock.Anything, shift).Return(nil)
	employees.On("FindByUserID", mock.Anything, p.UserID).Return(p, nil)

	resp, err := svc.Update(adminCtx(), shift.ID, ShiftRequest{
		EmployeeID: p.UserID,
		StartsAt:   shiftStart.Add(time.Hour),
		EndsAt:     shiftStart.Add(7 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "6.00", resp.Hours)
	assert.Len(t, events.events, 1)

	_, err = svc.Update(adminCtx(), shift.ID, ShiftRequest{EmployeeID: uuid.New(), StartsAt: shiftStart, EndsAt: shiftStart.Add(time.Hour)})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_EMPLOYEE", de.Code)
}

func TestShiftService_MineShowsOnlyPublished(t *testing.T) {
	svc, shifts, employees, _ := newShiftFixture()
	p := newProfile(t, "Mio", "18.00")
	shift, err := workforce.NewShift(p.UserID, shiftStart, shiftStart.Add(4*time.Hour), "", "")
	require.NoError(t, err)
	shifts.On("FindAll", mock.Anything, mock.MatchedBy(func(f workforce.ShiftFilter) bool {
		return f.PublishedOnly && f.EmployeeID != nil && *f.EmployeeID == p.UserID
	})).Return([]workforce.Shift{*shift}, int64(1), nil)
	employees.On("FindAll", mock.Anything, false).Return([]workforce.EmployeeProfile{*p}, nil)

	page, err := svc.Mine(employeeCtx(p.UserID), ShiftListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mio", page.Items[0].EmployeeName)

	_, err = svc.Mine(context.Background(), ShiftListFilter{})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestShiftService_DeleteUnknown(t *testing.T) {
	svc, shifts, _, _ := newShiftFixture()
	id := uuid.New()
	shifts.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(adminCtx(), id), shared.ErrNotFound)
	shifts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
