package railway

type SeatClass struct {
	Class            string `json:"class_"`
	Fare             string `json:"fare"`
	AvailableTickets string `json:"available_tickets"`
}

type TrainInfo struct {
	TrainName string      `json:"train_name"`
	From      string      `json:"from_"`
	To        string      `json:"to"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Duration  string      `json:"duration"`
	Classes   []SeatClass `json:"classes"`
}
