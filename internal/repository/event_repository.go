package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// EventRepository handles persistence for events and their categories.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.id, e.title, e.description, e.price, e.start_time, e.created_by, e.event_type, e.seats,
	COALESCE((SELECT AVG(r.score) FROM ratings r WHERE r.event_id = e.id), 0)::float8 AS rating,
	ARRAY(SELECT ec.category_id FROM event_categories ec WHERE ec.event_id = e.id ORDER BY ec.category_id)`

// friendsOf is the set of user ids befriended by the bound viewer parameter.
const friendsOf = `(SELECT uf.friend_id FROM user_friends uf WHERE uf.user_id = %s)`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Price, &e.StartTime,
		&e.CreatedBy, &e.EventType, &e.Seats, &e.Rating, &e.Categories)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// eventQuery accumulates WHERE conditions and positional arguments.
type eventQuery struct {
	conds []string
	args  []any
}

// bind appends v to the arguments and returns its placeholder.
func (q *eventQuery) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *eventQuery) where(cond string) {
	q.conds = append(q.conds, cond)
}

func (q *eventQuery) sql(order string) string {
	var b strings.Builder
	b.WriteString(`SELECT `)
	b.WriteString(eventColumns)
	b.WriteString(` FROM events e JOIN users u ON u.id = e.created_by`)
	if len(q.conds) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(q.conds, ` AND `))
	}
	if order != "" {
		b.WriteString(` ORDER BY `)
		b.WriteString(order)
	}
	return b.String()
}

// visibleTo restricts to events viewerID may see. A zero viewerID is an
// anonymous caller, who only sees public events.
func (q *eventQuery) visibleTo(viewerID int64) {
	if viewerID == 0 {
		q.where(`e.event_type = 'public'`)
		return
	}
	v := q.bind(viewerID)
	q.where(fmt.Sprintf(`(e.event_type = 'public' OR e.created_by = %s OR e.created_by IN `+friendsOf+`)`, v, v))
}

// escapeLike escapes the LIKE metacharacters in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns the events visible to viewerID that match filter. Without a
// sort order the result is ordered by descending average rating.
func (r *EventRepository) List(ctx context.Context, viewerID int64, filter model.EventFilter) ([]model.Event, error) {
	q := &eventQuery{}
	q.visibleTo(viewerID)

	if filter.Search != "" {
		p := q.bind("%" + escapeLike(filter.Search) + "%")
		q.where(fmt.Sprintf(`(e.title ILIKE %s OR u.username ILIKE %s)`, p, p))
	}

	if filter.EventType != "" {
		if viewerID == 0 {
			q.where(`e.event_type = 'public'`)
		} else {
			t := q.bind(string(filter.EventType))
			v := q.bind(viewerID)
			// Scoped to the viewer and their friends, whatever the type.
			q.where(fmt.Sprintf(`e.event_type = %s AND (e.created_by = %s OR e.created_by IN `+friendsOf+`)`,
				t, v, v))
		}
	}

	if len(filter.Categories) > 0 {
		c := q.bind(filter.Categories)
		q.where(fmt.Sprintf(`EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = ANY(%s))`, c))
	}

	switch filter.Relation {
	case model.RelationUser:
		v := q.bind(viewerID)
		q.where(fmt.Sprintf(`e.id IN (SELECT b.event_id FROM booked_events b WHERE b.user_id = %s)`, v))
	case model.RelationFriends:
		v := q.bind(viewerID)
		q.where(fmt.Sprintf(`e.id IN (
			SELECT b.event_id FROM booked_events b
			JOIN user_friends uf ON uf.friend_id = b.user_id
			JOIN users fu ON fu.id = b.user_id
			WHERE uf.user_id = %s AND NOT fu.private)`, v))
	}

	order := `rating DESC, e.id`
	switch filter.Sort {
	case model.SortAscending:
		order = `e.price ASC, e.id`
	case model.SortDescending:
		order = `e.price DESC, e.id`
	}

	rows, err := r.db.Query(ctx, q.sql(order), q.args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetVisible returns an event only if viewerID may see it, otherwise ErrNotFound.
func (r *EventRepository) GetVisible(ctx context.Context, viewerID, id int64) (*model.Event, error) {
	q := &eventQuery{}
	q.where(`e.id = ` + q.bind(id))
	q.visibleTo(viewerID)
	return r.get(ctx, q)
}

// GetByID returns a single event regardless of visibility, or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	q := &eventQuery{}
	q.where(`e.id = ` + q.bind(id))
	return r.get(ctx, q)
}

func (r *EventRepository) get(ctx context.Context, q *eventQuery) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, q.sql(""), q.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Create inserts an event and its category links in one transaction.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx,
		`INSERT INTO events (title, description, price, start_time, created_by, event_type, seats)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		e.Title, e.Description, e.Price, e.StartTime, e.CreatedBy, e.EventType, e.Seats,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err = replaceCategories(ctx, tx, e.ID, e.Categories); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return r.GetByID(ctx, e.ID)
}

// Update writes every mutable column of e. When replaceCats is set the
// category links are replaced by e.Categories.
//
// The event row is locked like Book locks it, so seats can never drop below
// the bookings already held, even against a concurrent booking.
func (r *EventRepository) Update(ctx context.Context, e *model.Event, replaceCats bool) (*model.Event, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, e.ID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	var booked int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM booked_events WHERE event_id = $1`,
		e.ID,
	).Scan(&booked)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if e.Seats < booked {
		return nil, fmt.Errorf("%w: %d booked, %d seats requested", ErrSeatsBelowBookings, booked, e.Seats)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, price = $4, start_time = $5, event_type = $6, seats = $7
		 WHERE id = $1`,
		e.ID, e.Title, e.Description, e.Price, e.StartTime, e.EventType, e.Seats,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if replaceCats {
		if _, err = tx.Exec(ctx, `DELETE FROM event_categories WHERE event_id = $1`, e.ID); err != nil {
			return nil, fmt.Errorf("clear categories: %w", err)
		}
		if err = replaceCategories(ctx, tx, e.ID, e.Categories); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return r.GetByID(ctx, e.ID)
}

func replaceCategories(ctx context.Context, tx pgx.Tx, eventID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO event_categories (event_id, category_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT DO NOTHING`,
		eventID, categoryIDs,
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrUnknownCategory
		}
		return fmt.Errorf("insert event categories: %w", err)
	}
	return nil
}

// Delete removes an event. Bookings, ratings and category links cascade.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
