package entity

import "time"

// Match is the record of a finished duel, kept for the history feed.
// Live room state is never persisted; only the outcome is.
type Match struct {
	RoomID     string    `json:"room_id"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	LoserID    string    `json:"loser_id"`
	LoserName  string    `json:"loser_name"`
	CodeLength int       `json:"code_length"`
	Guesses    int       `json:"guesses"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
