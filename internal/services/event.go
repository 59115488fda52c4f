package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hmorita143/eventchat/internal/models"
)

var (
	// ErrEventNotFound covers both a missing event and an actor who is
	// not the creator, so mutation attempts cannot reveal whether an
	// event exists.
	ErrEventNotFound   = errors.New("event not found")
	ErrInviteNotFound  = errors.New("event invite not found")
	ErrInvalidResponse = errors.New("invalid invite response")
)

type EventService struct {
	db DBConn
}

func NewEventService(db DBConn) *EventService {
	return &EventService{db: db}
}

// Create inserts the event, auto-adds the creator as a participant and
// creates one pending invite per invitee, all in one transaction. Duplicate
// invitee ids are absorbed by the (event_id, user_id) uniqueness constraint
// rather than checked up front.
func (s *EventService) Create(ctx context.Context, creatorID uuid.UUID, params models.CreateEventParams, inviteeIDs []uuid.UUID) (*models.Event, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	event := &models.Event{}
	err = tx.QueryRow(ctx,
		`INSERT INTO events (event_name, event_date, meeting_time, meeting_place, description, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, event_name, event_date, meeting_time, meeting_place, description, created_by, created_at`,
		params.Name, params.Date, params.MeetingTime, params.MeetingPlace, params.Description, creatorID,
	).Scan(&event.ID, &event.Name, &event.Date, &event.MeetingTime, &event.MeetingPlace,
		&event.Description, &event.CreatedBy, &event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)`,
		event.ID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("adding creator as participant: %w", err)
	}

	for _, inviteeID := range inviteeIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO event_invites (event_id, user_id, status)
			 VALUES ($1, $2, 'pending')
			 ON CONFLICT (event_id, user_id) DO NOTHING`,
			event.ID, inviteeID,
		)
		if err != nil {
			return nil, fmt.Errorf("creating invite for %s: %w", inviteeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing event: %w", err)
	}

	return event, nil
}

// Update changes event fields. Nil params leave the stored value in place.
// A missing event and a non-creator actor produce the same error.
func (s *EventService) Update(ctx context.Context, actorID, eventID uuid.UUID, params models.UpdateEventParams) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE events
		 SET event_name    = COALESCE($3, event_name),
		     event_date    = COALESCE($4, event_date),
		     meeting_time  = COALESCE($5, meeting_time),
		     meeting_place = COALESCE($6, meeting_place),
		     description   = COALESCE($7, description)
		 WHERE id = $1 AND created_by = $2`,
		eventID, actorID,
		params.Name, params.Date, params.MeetingTime, params.MeetingPlace, params.Description,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes the event and everything hanging off it. Children go
// first to respect referential integrity: invites, participants, messages,
// then the event row.
func (s *EventService) Delete(ctx context.Context, actorID, eventID uuid.UUID) error {
	var createdBy uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT created_by FROM events WHERE id = $1`, eventID).Scan(&createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("getting event: %w", err)
	}
	if createdBy != actorID {
		return ErrEventNotFound
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM event_invites WHERE event_id = $1`,
		`DELETE FROM event_participants WHERE event_id = $1`,
		`DELETE FROM messages WHERE event_id = $1`,
		`DELETE FROM events WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, eventID); err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

// InviteMore adds pending invites for ids not already holding one, as a
// single multi-row insert. It does not check whether an id is already a
// participant, so participants can be re-invited.
func (s *EventService) InviteMore(ctx context.Context, eventID uuid.UUID, inviteeIDs []uuid.UUID) error {
	if len(inviteeIDs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO event_invites (event_id, user_id, status) VALUES `)
	args := make([]interface{}, 0, len(inviteeIDs)+1)
	args = append(args, eventID)
	for i, inviteeID := range inviteeIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($1, $%d, 'pending')", i+2)
		args = append(args, inviteeID)
	}
	sb.WriteString(` ON CONFLICT (event_id, user_id) DO NOTHING`)

	if _, err := s.db.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("creating invites: %w", err)
	}
	return nil
}

// RespondToInvite records the invitee's decision. Accepting inserts the
// participant row if absent; the invite status is set either way.
// Rejecting never touches participant rows.
func (s *EventService) RespondToInvite(ctx context.Context, userID, eventID uuid.UUID, response models.InviteStatus) error {
	if response != models.InviteStatusAccepted && response != models.InviteStatusRejected {
		return ErrInvalidResponse
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE event_invites SET status = $3 WHERE event_id = $1 AND user_id = $2`,
		eventID, userID, response,
	)
	if err != nil {
		return fmt.Errorf("updating invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInviteNotFound
	}

	if response == models.InviteStatusAccepted {
		// ON CONFLICT keeps concurrent duplicate accepts from creating
		// a second participant row.
		_, err = tx.Exec(ctx,
			`INSERT INTO event_participants (event_id, user_id)
			 VALUES ($1, $2)
			 ON CONFLICT (event_id, user_id) DO NOTHING`,
			eventID, userID,
		)
		if err != nil {
			return fmt.Errorf("adding participant: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing invite response: %w", err)
	}

	return nil
}

// GetDetail returns the event with its participants, pending invites and
// full message history ordered by timestamp ascending.
func (s *EventService) GetDetail(ctx context.Context, eventID uuid.UUID) (*models.EventDetail, error) {
	detail := &models.EventDetail{}
	err := s.db.QueryRow(ctx,
		`SELECT e.id, e.event_name, e.event_date, e.meeting_time, e.meeting_place,
		        e.description, e.created_by, e.created_at, u.username
		 FROM events e
		 JOIN users u ON e.created_by = u.id
		 WHERE e.id = $1`,
		eventID,
	).Scan(&detail.Event.ID, &detail.Event.Name, &detail.Event.Date, &detail.Event.MeetingTime,
		&detail.Event.MeetingPlace, &detail.Event.Description, &detail.Event.CreatedBy,
		&detail.Event.CreatedAt, &detail.CreatorName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}

	detail.Participants, err = s.listParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	detail.PendingInvites, err = s.listPendingInvites(ctx, eventID)
	if err != nil {
		return nil, err
	}

	detail.Messages, err = s.ListMessages(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *EventService) listParticipants(ctx context.Context, eventID uuid.UUID) ([]models.Participant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.user_id, u.username
		 FROM event_participants p
		 JOIN users u ON p.user_id = u.id
		 WHERE p.event_id = $1
		 ORDER BY p.created_at`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.Username); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	return participants, nil
}

func (s *EventService) listPendingInvites(ctx context.Context, eventID uuid.UUID) ([]models.Invitee, error) {
	rows, err := s.db.Query(ctx,
		`SELECT i.user_id, u.username
		 FROM event_invites i
		 JOIN users u ON i.user_id = u.id
		 WHERE i.event_id = $1 AND i.status = 'pending'
		 ORDER BY i.created_at`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	invitees := []models.Invitee{}
	for rows.Next() {
		var inv models.Invitee
		if err := rows.Scan(&inv.UserID, &inv.Username); err != nil {
			return nil, fmt.Errorf("scanning invite: %w", err)
		}
		invitees = append(invitees, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}

	return invitees, nil
}

// ListMessages returns the event's messages ordered by timestamp ascending.
func (s *EventService) ListMessages(ctx context.Context, eventID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT m.id, m.event_id, m.user_id, u.username, m.body, m.created_at
		 FROM messages m
		 JOIN users u ON m.user_id = u.id
		 WHERE m.event_id = $1
		 ORDER BY m.created_at`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.UserID, &m.Username, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	return messages, nil
}

// ListUserInvites returns the user's pending invites with event summaries.
func (s *EventService) ListUserInvites(ctx context.Context, userID uuid.UUID) ([]models.UserInvite, error) {
	rows, err := s.db.Query(ctx,
		`SELECT i.id, i.event_id, i.user_id, i.status, i.created_at, e.event_name, e.event_date
		 FROM event_invites i
		 JOIN events e ON i.event_id = e.id
		 WHERE i.user_id = $1 AND i.status = 'pending'
		 ORDER BY i.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user invites: %w", err)
	}
	defer rows.Close()

	invites := []models.UserInvite{}
	for rows.Next() {
		var inv models.UserInvite
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.UserID, &inv.Status, &inv.CreatedAt,
			&inv.EventName, &inv.EventDate); err != nil {
			return nil, fmt.Errorf("scanning invite: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing user invites: %w", err)
	}

	return invites, nil
}

// ListParticipated returns the events the user participates in or created
// within the given calendar month.
func (s *EventService) ListParticipated(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.EventSummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT e.id, e.event_name, e.event_date
		 FROM events e
		 LEFT JOIN event_participants p ON p.event_id = e.id
		 WHERE (p.user_id = $1 OR e.created_by = $1)
		   AND e.event_date >= $2 AND e.event_date < $3
		 ORDER BY e.event_date`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("listing participated events: %w", err)
	}
	defer rows.Close()

	events := []models.EventSummary{}
	for rows.Next() {
		var e models.EventSummary
		if err := rows.Scan(&e.ID, &e.Name, &e.Date); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing participated events: %w", err)
	}

	return events, nil
}

// IsParticipant reports whether the user holds a participant row for the
// event. This is the sole authorization predicate for chat access.
func (s *EventService) IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var isParticipant bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2
		)`,
		eventID, userID,
	).Scan(&isParticipant)
	if err != nil {
		return false, fmt.Errorf("checking participant: %w", err)
	}
	return isParticipant, nil
}

// CreateMessage persists one chat line and returns the stored row joined
// with the author's username.
func (s *EventService) CreateMessage(ctx context.Context, eventID, userID uuid.UUID, body string) (*models.Message, error) {
	message := &models.Message{}
	err := s.db.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO messages (id, event_id, user_id, body)
			VALUES ($1, $2, $3, $4)
			RETURNING id, event_id, user_id, body, created_at
		)
		SELECT ins.id, ins.event_id, ins.user_id, u.username, ins.body, ins.created_at
		FROM ins JOIN users u ON u.id = ins.user_id`,
		uuid.New(), eventID, userID, body,
	).Scan(&message.ID, &message.EventID, &message.UserID, &message.Username, &message.Body, &message.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	return message, nil
}
