// Package board stores shared whiteboard strokes per room.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studyroom/server/internal/repository/store"
)

var ErrNoValidPoints = errors.New("stroke contains no valid points")

const (
	defaultStrokeSize = 5

	toolPen    = "pen"
	toolEraser = "eraser"
)

type iStrokeRepo interface {
	CreateStroke(context.Context, *store.CreateStrokeParams) (store.Stroke, error)
	ListStrokes(context.Context, int64) ([]store.Stroke, error)
	DeleteStrokes(context.Context, int64) error
}

type service struct {
	strokeRepo iStrokeRepo
	logger     *slog.Logger
}

func NewService(strokeRepo iStrokeRepo, logger *slog.Logger) *service {
	return &service{
		strokeRepo: strokeRepo,
		logger:     logger,
	}
}

// PointInput is one raw point from a client. Coordinates are pointers
// so a point missing x or y can be told apart from one at the origin.
type PointInput struct {
	Type string   `json:"type"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

type AddStrokeParams struct {
	RoomId    int64
	Points    []PointInput
	Color     string
	Tool      string
	Size      float64
	CreatedBy *string
}

// AddStroke normalizes and stores one polyline. Points with an unknown
// type or missing coordinates are dropped; anything that is not an
// eraser draws as a pen, and a non-positive size falls back to the
// default.
func (s service) AddStroke(ctx context.Context, params *AddStrokeParams) (store.Stroke, error) {
	points := make([]store.Point, 0, len(params.Points))
	for _, p := range params.Points {
		if p.Type != "start" && p.Type != "move" {
			continue
		}
		if p.X == nil || p.Y == nil {
			continue
		}
		points = append(points, store.Point{Type: p.Type, X: *p.X, Y: *p.Y})
	}
	if len(points) == 0 {
		return store.Stroke{}, ErrNoValidPoints
	}

	tool := toolPen
	if params.Tool == toolEraser {
		tool = toolEraser
	}

	size := params.Size
	if size <= 0 {
		size = defaultStrokeSize
	}

	stroke, err := s.strokeRepo.CreateStroke(ctx, &store.CreateStrokeParams{
		RoomId:    params.RoomId,
		Points:    points,
		Color:     params.Color,
		Tool:      tool,
		Size:      size,
		CreatedBy: params.CreatedBy,
	})
	if err != nil {
		return store.Stroke{}, fmt.Errorf("failed to create stroke: %w", err)
	}

	return stroke, nil
}

func (s service) ListStrokes(ctx context.Context, roomId int64) ([]store.Stroke, error) {
	strokes, err := s.strokeRepo.ListStrokes(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}

	return strokes, nil
}

func (s service) ClearStrokes(ctx context.Context, roomId int64) error {
	if err := s.strokeRepo.DeleteStrokes(ctx, roomId); err != nil {
		return fmt.Errorf("failed to clear strokes: %w", err)
	}

	return nil
}
