package models

import "time"

// User owns decks. TimeZone is an IANA name used to turn review timestamps
// into calendar dates; empty means the server default.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	TimeZone  string    `json:"timeZone"`
	CreatedAt time.Time `json:"createdAt"`
}
