package domain

import "time"

// User is a chat participant identified by their Telegram id.
// Created lazily the first time a command needs the record; never
// updated or deleted afterwards.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}
