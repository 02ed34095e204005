package db

type Alert struct {
	ID          int64  `json:"id"`
	RunID       string `json:"run_id"`
	TrainName   string `json:"train_name"`
	SeatClass   string `json:"seat_class"`
	Available   int64  `json:"available"`
	Receiver    string `json:"receiver"`
	JourneyDate string `json:"journey_date"`
	CreatedAt   int64  `json:"created_at"`
	SendError   string `json:"send_error"`
}
