// Package store defines the relational store contracts: users, rooms and
// the per-room content rows (chat messages, video comments, whiteboard
// strokes, assistant history).
package store

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type User struct {
	Id           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Room struct {
	Id        int64     `json:"id"`
	Title     string    `json:"title"`
	Subject   *string   `json:"subject"`
	VideoURL  *string   `json:"video_url"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	Id        int64     `json:"id"`
	RoomId    int64     `json:"room_id"`
	UserId    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	Id             int64     `json:"id"`
	RoomId         int64     `json:"room_id"`
	UserId         string    `json:"user_id"`
	Username       string    `json:"username"`
	Content        string    `json:"content"`
	VideoTimestamp float64   `json:"video_timestamp"`
	CreatedAt      time.Time `json:"created_at"`
}

type Point struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Stroke struct {
	Id        int64     `json:"id"`
	RoomId    int64     `json:"room_id"`
	Points    []Point   `json:"strokes"`
	Color     string    `json:"color"`
	Tool      string    `json:"tool"`
	Size      float64   `json:"size"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type AssistantMessage struct {
	Id        int64     `json:"id"`
	RoomId    int64     `json:"room_id"`
	UserId    *string   `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
