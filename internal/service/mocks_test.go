package service

import (
	"context"
	"database/sql"

	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/pkg/events"
)

// Shared collaborator mocks used across service tests.

type mockDirectory struct {
	students map[string]*models.StudentProfile
	staff    map[string]*models.StaffProfile
}

func (m *mockDirectory) FindStudent(ctx context.Context, id string) (*models.StudentProfile, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDirectory) FindStaff(ctx context.Context, id string) (*models.StaffProfile, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateRooms(ctx context.Context) error {
	m.calls++
	return nil
}

type mockEmitter struct {
	events []events.Event
}

func (m *mockEmitter) Emit(event events.Event) error {
	m.events = append(m.events, event)
	return nil
}

type mockRoomReader struct {
	rooms map[string]*models.Room
}

func (m *mockRoomReader) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := m.rooms[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}
