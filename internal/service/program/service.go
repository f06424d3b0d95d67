package program

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/logger"
)

type Service struct {
	programs repository.ProgramRepository
	patients repository.PatientRepository
	logger   *logger.Logger
}

func NewService(programs repository.ProgramRepository, patients repository.PatientRepository, logger *logger.Logger) *Service {
	return &Service{programs: programs, patients: patients, logger: logger}
}

func (s *Service) CreateProgram(ctx context.Context, organizationID uuid.UUID, req *model.CreateProgramRequest) (*model.Program, error) {
	program := &model.Program{
		OrganizationID: organizationID,
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	program.ID = uuid.New()

	if err := s.programs.Create(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return program, nil
}

func (s *Service) GetProgram(ctx context.Context, id, organizationID uuid.UUID) (*model.Program, error) {
	program, err := s.programs.Find(ctx, id, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}
	if program == nil {
		return nil, errors.NotFound("program", nil)
	}
	return program, nil
}

func (s *Service) ListPrograms(ctx context.Context, organizationID uuid.UUID) ([]*model.Program, error) {
	programs, err := s.programs.List(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

// EnrollParticipant links an existing patient to the program. The patient
// must belong to the same organization as the program.
func (s *Service) EnrollParticipant(ctx context.Context, programID, organizationID, patientID uuid.UUID) (*model.ProgramParticipant, error) {
	if _, err := s.GetProgram(ctx, programID, organizationID); err != nil {
		return nil, err
	}
	patient, err := s.patients.Find(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if patient == nil {
		return nil, errors.NotFound("patient", nil)
	}

	participant := &model.ProgramParticipant{
		ID:        uuid.New(),
		ProgramID: programID,
		PatientID: patientID,
		JoinedAt:  time.Now(),
	}
	if err := s.programs.AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to enroll participant: %w", err)
	}
	return participant, nil
}

func (s *Service) ScheduleMeeting(ctx context.Context, programID, organizationID uuid.UUID, date time.Time, topic *string) (*model.ProgramMeeting, error) {
	if _, err := s.GetProgram(ctx, programID, organizationID); err != nil {
		return nil, err
	}

	meeting := &model.ProgramMeeting{
		ID:        uuid.New(),
		ProgramID: programID,
		Date:      date,
		Topic:     topic,
	}
	if err := s.programs.AddMeeting(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to schedule meeting: %w", err)
	}
	return meeting, nil
}

// RecordCheckIn stores one participant's measurements for one meeting. The
// meeting and participant must both belong to the given program.
func (s *Service) RecordCheckIn(ctx context.Context, programID, organizationID uuid.UUID, record *model.MeetingRecord) (*model.MeetingRecord, error) {
	program, err := s.GetProgram(ctx, programID, organizationID)
	if err != nil {
		return nil, err
	}

	var meetingFound bool
	for _, m := range program.Meetings {
		if m.ID == record.MeetingID {
			meetingFound = true
			break
		}
	}
	if !meetingFound {
		return nil, errors.NotFound("program meeting", nil)
	}

	var participantFound bool
	for _, p := range program.Participants {
		if p.ID == record.ParticipantID {
			participantFound = true
			break
		}
	}
	if !participantFound {
		return nil, errors.NotFound("program participant", nil)
	}

	record.ID = uuid.New()
	if err := s.programs.AddMeetingRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return record, nil
}
