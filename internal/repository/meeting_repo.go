package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"minuteshub/internal/fault"
	"minuteshub/internal/model"
)

type MeetingRepository struct {
	db *pgxpool.Pool
}

func NewMeetingRepository(db *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts the meeting and its action items, assigning a new id.
func (r *MeetingRepository) Create(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	participants, err := json.Marshal(emptyIfNilParticipants(m.Participants))
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "encode participants", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO meetings (title, date, duration, tags, user_id, transcript, summary, audio_url, participants, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `
	err = tx.QueryRow(ctx, query,
		m.Title, m.Date, m.Duration, emptyIfNil(m.Tags), m.UserID,
		m.Transcript, m.Summary, m.AudioURL, participants, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "insert meeting", err)
	}

	if err := replaceActionItemsTx(ctx, tx, m.ID, m.ActionItems); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fault.Wrap(fault.KindStorage, "commit", err)
	}

	if m.ActionItems == nil {
		m.ActionItems = []model.ActionItem{}
	}
	return m, nil
}

// Update persists the full record for m.ID, replacing its action items.
func (r *MeetingRepository) Update(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	participants, err := json.Marshal(emptyIfNilParticipants(m.Participants))
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "encode participants", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
        UPDATE meetings
        SET title = $1, date = $2, duration = $3, tags = $4, transcript = $5,
            summary = $6, audio_url = $7, participants = $8, notes = $9, updated_at = NOW()
        WHERE id = $10
        RETURNING updated_at
    `
	err = tx.QueryRow(ctx, query,
		m.Title, m.Date, m.Duration, emptyIfNil(m.Tags),
		m.Transcript, m.Summary, m.AudioURL, participants, m.Notes, m.ID,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFound(fmt.Sprintf("meeting %d not found", m.ID))
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "update meeting", err)
	}

	if err := deleteActionItemsTx(ctx, tx, m.ID); err != nil {
		return nil, err
	}
	if err := replaceActionItemsTx(ctx, tx, m.ID, m.ActionItems); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fault.Wrap(fault.KindStorage, "commit", err)
	}

	if m.ActionItems == nil {
		m.ActionItems = []model.ActionItem{}
	}
	return m, nil
}

// GetByID returns the meeting or a not-found fault.
func (r *MeetingRepository) GetByID(ctx context.Context, id int) (*model.Meeting, error) {
	query := `
        SELECT id, title, date, duration, tags, user_id, transcript, summary, audio_url, participants, notes, created_at, updated_at
        FROM meetings
        WHERE id = $1
    `
	m, err := scanMeeting(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFound(fmt.Sprintf("meeting %d not found", id))
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "query meeting", err)
	}

	items, err := r.actionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	m.ActionItems = items
	return m, nil
}

// List returns all meetings sorted by date descending, action items included.
func (r *MeetingRepository) List(ctx context.Context) ([]model.Meeting, error) {
	query := `
        SELECT id, title, date, duration, tags, user_id, transcript, summary, audio_url, participants, notes, created_at, updated_at
        FROM meetings
        ORDER BY date DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "list meetings", err)
	}
	defer rows.Close()

	meetings := []model.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fault.Wrap(fault.KindStorage, "scan meeting", err)
		}
		meetings = append(meetings, *m)
	}
	if rows.Err() != nil {
		return nil, fault.Wrap(fault.KindStorage, "list meetings", rows.Err())
	}

	for i := range meetings {
		items, err := r.actionItems(ctx, meetings[i].ID)
		if err != nil {
			return nil, err
		}
		meetings[i].ActionItems = items
	}
	return meetings, nil
}

// Delete removes the meeting and reports whether a record existed.
// Action items go with it via ON DELETE CASCADE.
func (r *MeetingRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return false, fault.Wrap(fault.KindStorage, "delete meeting", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MeetingRepository) actionItems(ctx context.Context, meetingID int) ([]model.ActionItem, error) {
	query := `
        SELECT id, text, completed, assignee, due_date
        FROM action_items
        WHERE meeting_id = $1
        ORDER BY position
    `
	rows, err := r.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, fault.Wrap(fault.KindStorage, "list action items", err)
	}
	defer rows.Close()

	items := []model.ActionItem{}
	for rows.Next() {
		var it model.ActionItem
		if err := rows.Scan(&it.ID, &it.Text, &it.Completed, &it.Assignee, &it.DueDate); err != nil {
			return nil, fault.Wrap(fault.KindStorage, "scan action item", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fault.Wrap(fault.KindStorage, "list action items", rows.Err())
	}
	return items, nil
}

func deleteActionItemsTx(ctx context.Context, tx pgx.Tx, meetingID int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM action_items WHERE meeting_id = $1`, meetingID); err != nil {
		return fault.Wrap(fault.KindStorage, "clear action items", err)
	}
	return nil
}

func replaceActionItemsTx(ctx context.Context, tx pgx.Tx, meetingID int, items []model.ActionItem) error {
	for i, it := range items {
		_, err := tx.Exec(ctx, `
            INSERT INTO action_items (id, meeting_id, position, text, completed, assignee, due_date)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, it.ID, meetingID, i, it.Text, it.Completed, it.Assignee, it.DueDate)
		if err != nil {
			return fault.Wrap(fault.KindStorage, "insert action item", err)
		}
	}
	return nil
}

func scanMeeting(row pgx.Row) (*model.Meeting, error) {
	var m model.Meeting
	var participants []byte
	err := row.Scan(
		&m.ID, &m.Title, &m.Date, &m.Duration, &m.Tags, &m.UserID,
		&m.Transcript, &m.Summary, &m.AudioURL, &participants, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participants, &m.Participants); err != nil {
		return nil, err
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Participants == nil {
		m.Participants = []model.Participant{}
	}
	return &m, nil
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func emptyIfNilParticipants(ps []model.Participant) []model.Participant {
	if ps == nil {
		return []model.Participant{}
	}
	return ps
}
