package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
)

type programRepository struct {
	db *sqlx.DB
}

func NewProgramRepository(db *sqlx.DB) repository.ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *model.Program) error {
	query := `
		INSERT INTO programs (id, organization_id, name, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	program.CreatedAt = time.Now()
	program.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		program.ID,
		program.OrganizationID,
		program.Name,
		program.Description,
		program.StartDate,
		program.EndDate,
		program.CreatedAt,
		program.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

// Find loads the program aggregate: participants, meetings ordered by date
// ascending, and every meeting's records.
func (r *programRepository) Find(ctx context.Context, id, organizationID uuid.UUID) (*model.Program, error) {
	query := `SELECT * FROM programs WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`
	var program model.Program
	err := r.db.GetContext(ctx, &program, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	participantsQuery := `SELECT * FROM program_participants WHERE program_id = $1 ORDER BY joined_at ASC`
	if err := r.db.SelectContext(ctx, &program.Participants, participantsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to load program participants: %w", err)
	}

	meetingsQuery := `SELECT * FROM program_meetings WHERE program_id = $1 ORDER BY date ASC`
	if err := r.db.SelectContext(ctx, &program.Meetings, meetingsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to load program meetings: %w", err)
	}

	if len(program.Meetings) > 0 {
		meetingIDs := make([]uuid.UUID, len(program.Meetings))
		for i, m := range program.Meetings {
			meetingIDs[i] = m.ID
		}

		var records []model.MeetingRecord
		recordsQuery := `SELECT * FROM meeting_records WHERE meeting_id = ANY($1)`
		if err := r.db.SelectContext(ctx, &records, recordsQuery, pq.Array(meetingIDs)); err != nil {
			return nil, fmt.Errorf("failed to load meeting records: %w", err)
		}

		byMeeting := make(map[uuid.UUID][]model.MeetingRecord, len(program.Meetings))
		for _, rec := range records {
			byMeeting[rec.MeetingID] = append(byMeeting[rec.MeetingID], rec)
		}
		for i := range program.Meetings {
			program.Meetings[i].Records = byMeeting[program.Meetings[i].ID]
		}
	}

	return &program, nil
}

func (r *programRepository) List(ctx context.Context, organizationID uuid.UUID) ([]*model.Program, error) {
	query := `SELECT * FROM programs WHERE organization_id = $1 AND deleted_at IS NULL ORDER BY start_date DESC`
	var programs []*model.Program
	err := r.db.SelectContext(ctx, &programs, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (r *programRepository) AddParticipant(ctx context.Context, participant *model.ProgramParticipant) error {
	query := `
		INSERT INTO program_participants (id, program_id, patient_id, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		participant.ID,
		participant.ProgramID,
		participant.PatientID,
		participant.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add program participant: %w", err)
	}
	return nil
}

func (r *programRepository) AddMeeting(ctx context.Context, meeting *model.ProgramMeeting) error {
	query := `
		INSERT INTO program_meetings (id, program_id, date, topic)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		meeting.ID,
		meeting.ProgramID,
		meeting.Date,
		meeting.Topic,
	)
	if err != nil {
		return fmt.Errorf("failed to add program meeting: %w", err)
	}
	return nil
}

func (r *programRepository) AddMeetingRecord(ctx context.Context, record *model.MeetingRecord) error {
	query := `
		INSERT INTO meeting_records (id, meeting_id, participant_id, present, weight, bmi, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.MeetingID,
		record.ParticipantID,
		record.Present,
		record.Weight,
		record.BMI,
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to add meeting record: %w", err)
	}
	return nil
}
