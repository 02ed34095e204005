// source: query.sql

package db

import (
	"context"
)

const createAlert = `-- name: CreateAlert :one
insert into alert(run_id, train_name, seat_class, available, receiver, journey_date, created_at, send_error)
values (?, ?, ?, ?, ?, ?, ?, ?)
returning id
`

type CreateAlertParams struct {
	RunID       string
	TrainName   string
	SeatClass   string
	Available   int64
	Receiver    string
	JourneyDate string
	CreatedAt   int64
	SendError   string
}

func (q *Queries) CreateAlert(ctx context.Context, arg CreateAlertParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createAlert,
		arg.RunID,
		arg.TrainName,
		arg.SeatClass,
		arg.Available,
		arg.Receiver,
		arg.JourneyDate,
		arg.CreatedAt,
		arg.SendError,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listAlerts = `-- name: ListAlerts :many
select id, run_id, train_name, seat_class, available, receiver, journey_date, created_at, send_error from alert
order by created_at desc, id desc
limit ?
`

func (q *Queries) ListAlerts(ctx context.Context, limit int64) ([]Alert, error) {
	rows, err := q.db.QueryContext(ctx, listAlerts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Alert
	for rows.Next() {
		var i Alert
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.TrainName,
			&i.SeatClass,
			&i.Available,
			&i.Receiver,
			&i.JourneyDate,
			&i.CreatedAt,
			&i.SendError,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
