package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
)

// ErrTransitionRejected means the conditional update matched no row: the
// ticket no longer satisfies the transition guard.
var ErrTransitionRejected = errors.New("ticket transition rejected")

// TicketFilter narrows ticket listings and counts.
type TicketFilter struct {
	CompanyID    *string
	CreatorID    *string
	AssigneeID   *string
	Status       *domain.TicketStatus
	CreatedAfter *time.Time
	Limit        int
	Offset       int
}

// TicketTransitionUpdate is a compare-and-swap status change.
type TicketTransitionUpdate struct {
	TicketID   string
	Transition domain.Transition
	CallerID   string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// Create assigns the next ticket number and persists the ticket.
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.TicketDetail, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
	Transition(ctx context.Context, update TicketTransitionUpdate) (*domain.Ticket, error)
	UpdateSolution(ctx context.Context, id, solution string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.ticket_number, t.status, t.priority, t.issue, t.action_expected, t.action_performed,
               t.extra_info, t.solution, t.phone_number, t.created_at, t.creator_id, t.assignee_id, t.company_id, t.machine_id`

const ticketDetailSelect = `SELECT ` + ticketColumns + `,
               TRIM(CONCAT_WS(' ', cr.first_name, NULLIF(cr.prefix, ''), cr.last_name)),
               CASE WHEN a.id IS NULL THEN NULL ELSE TRIM(CONCAT_WS(' ', a.first_name, NULLIF(a.prefix, ''), a.last_name)) END,
               c.name, m.name
        FROM tickets t
        JOIN users cr ON cr.id = t.creator_id
        LEFT JOIN users a ON a.id = t.assignee_id
        JOIN companies c ON c.id = t.company_id
        JOIN machines m ON m.id = t.machine_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return persistence.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Serializes number assignment against concurrent creates.
		if _, err := tx.Exec(ctx, `LOCK TABLE tickets IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}

		const query = `
        INSERT INTO tickets (ticket_number, status, priority, issue, action_expected, action_performed,
            extra_info, solution, phone_number, created_at, creator_id, company_id, machine_id)
        SELECT COALESCE(MAX(ticket_number), 0) + 1, $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12 FROM tickets
        RETURNING id, ticket_number`
		return tx.QueryRow(ctx, query,
			ticket.Status,
			ticket.Priority,
			ticket.Issue,
			ticket.ActionExpected,
			ticket.ActionPerformed,
			ticket.ExtraInfo,
			ticket.Solution,
			ticket.PhoneNumber,
			ticket.CreatedAt,
			ticket.CreatorID,
			ticket.CompanyID,
			ticket.MachineID,
		).Scan(&ticket.ID, &ticket.TicketNumber)
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketScanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetDetail(ctx context.Context, id string) (*domain.TicketDetail, error) {
	var detail domain.TicketDetail
	if err := r.pool.QueryRow(ctx, ticketDetailSelect+` WHERE t.id=$1`, id).Scan(detailScanTargets(&detail)...); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.TicketDetail, error) {
	where, args := ticketWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s
        ORDER BY t.status ASC, t.priority ASC, t.created_at DESC, t.ticket_number DESC
        LIMIT %d OFFSET %d`, ticketDetailSelect, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketDetail{}
	for rows.Next() {
		var detail domain.TicketDetail
		if err := rows.Scan(detailScanTargets(&detail)...); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := ticketWhere(filter)
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t WHERE `+where, args...).Scan(&count)
	return count, err
}

func (r *ticketRepository) Transition(ctx context.Context, update TicketTransitionUpdate) (*domain.Ticket, error) {
	query, args := transitionQuery(update)
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, args...).Scan(ticketScanTargets(&ticket)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransitionRejected
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) UpdateSolution(ctx context.Context, id, solution string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET solution=$1 WHERE id=$2`, solution, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// transitionQuery builds the conditional update for a transition. The guard
// lives in the WHERE clause so the check and the write are one statement.
func transitionQuery(update TicketTransitionUpdate) (string, []any) {
	tr := update.Transition
	args := []any{tr.To, update.TicketID}
	sets := []string{"status=$1"}

	switch tr.Assignee {
	case domain.AssigneeSetCaller:
		args = append(args, update.CallerID)
		sets = append(sets, fmt.Sprintf("assignee_id=$%d", len(args)))
	case domain.AssigneeClear:
		sets = append(sets, "assignee_id=NULL")
	}

	clauses := []string{"t.id=$2"}
	from := make([]int16, 0, len(tr.From))
	for _, status := range tr.From {
		from = append(from, int16(status))
	}
	args = append(args, from)
	clauses = append(clauses, fmt.Sprintf("t.status = ANY($%d)", len(args)))

	if tr.Claimed != nil {
		if *tr.Claimed {
			clauses = append(clauses, "t.assignee_id IS NOT NULL")
		} else {
			clauses = append(clauses, "t.assignee_id IS NULL")
		}
	}

	query := fmt.Sprintf(`UPDATE tickets t SET %s WHERE %s RETURNING %s`,
		strings.Join(sets, ", "), strings.Join(clauses, " AND "), ticketColumns)
	return query, args
}

func ticketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("t.company_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("t.creator_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("t.assignee_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		clauses = append(clauses, fmt.Sprintf("t.created_at > $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func ticketScanTargets(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Issue,
		&ticket.ActionExpected,
		&ticket.ActionPerformed,
		&ticket.ExtraInfo,
		&ticket.Solution,
		&ticket.PhoneNumber,
		&ticket.CreatedAt,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.CompanyID,
		&ticket.MachineID,
	}
}

func detailScanTargets(detail *domain.TicketDetail) []any {
	return append(ticketScanTargets(&detail.Ticket),
		&detail.CreatorName,
		&detail.AssigneeName,
		&detail.CompanyName,
		&detail.MachineName,
	)
}
