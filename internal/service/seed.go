package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
)

type demoSession struct {
	tutorID string
	request dto.CreateAppointmentRequest
}

var demoSessions = []demoSession{
	{tutorID: "u1", request: dto.CreateAppointmentRequest{
		Name: "Linear algebra exam prep", StartTime: "2025-11-26 09:00:00", EndTime: "2025-11-26 11:00:00",
		Place: "H6-304", MaxSlot: json.Number("5"),
	}},
	{tutorID: "u1", request: dto.CreateAppointmentRequest{
		Name: "Linear algebra exam prep (part 2)", StartTime: "2025-12-06 14:00:00", EndTime: "2025-12-06 16:00:00",
		Place: "H6-304", MaxSlot: json.Number("5"),
	}},
	{tutorID: "u_nva", request: dto.CreateAppointmentRequest{
		Name: "Research group meeting", StartTime: "2025-12-05 14:00:00", EndTime: "2025-12-05 16:00:00",
		Place: "H6-301", MaxSlot: json.Number("10"),
	}},
	{tutorID: "u_nva", request: dto.CreateAppointmentRequest{
		Name: "Software engineering", StartTime: "2025-12-06 14:00:00", EndTime: "2025-12-06 16:00:00",
		Place: "H6-301", MaxSlot: json.Number("90"),
	}},
}

// SeedDemoData opens the sample sessions through Create so the usual invariants apply.
// It returns the number of sessions created.
func (s *AppointmentService) SeedDemoData(ctx context.Context) (int, error) {
	created := 0
	for _, session := range demoSessions {
		if _, err := s.Create(ctx, session.tutorID, session.request); err != nil {
			return created, fmt.Errorf("seed %q: %w", session.request.Name, err)
		}
		created++
	}
	return created, nil
}
