package board

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyroom/server/internal/repository/store"
)

type fakeStrokeRepo struct {
	strokes map[int64][]store.Stroke
	nextId  int64
}

func newFakeStrokeRepo() *fakeStrokeRepo {
	return &fakeStrokeRepo{strokes: make(map[int64][]store.Stroke)}
}

func (r *fakeStrokeRepo) CreateStroke(ctx context.Context, params *store.CreateStrokeParams) (store.Stroke, error) {
	r.nextId++
	stroke := store.Stroke{
		Id:        r.nextId,
		RoomId:    params.RoomId,
		Points:    params.Points,
		Color:     params.Color,
		Tool:      params.Tool,
		Size:      params.Size,
		CreatedBy: params.CreatedBy,
	}
	r.strokes[params.RoomId] = append(r.strokes[params.RoomId], stroke)
	return stroke, nil
}

func (r *fakeStrokeRepo) ListStrokes(ctx context.Context, roomId int64) ([]store.Stroke, error) {
	return r.strokes[roomId], nil
}

func (r *fakeStrokeRepo) DeleteStrokes(ctx context.Context, roomId int64) error {
	delete(r.strokes, roomId)
	return nil
}

func pt(typ string, x, y float64) PointInput {
	return PointInput{Type: typ, X: &x, Y: &y}
}

func TestAddStrokeNormalizes(t *testing.T) {
	repo := newFakeStrokeRepo()
	svc := NewService(repo, slog.Default())

	stroke, err := svc.AddStroke(context.Background(), &AddStrokeParams{
		RoomId: 7,
		Points: []PointInput{
			pt("start", 1, 1),
			pt("glitch", 99, 99),
			pt("move", 2, 2),
		},
		Color: "#000",
		Tool:  "spraycan",
		Size:  -3,
	})
	require.NoError(t, err)

	assert.Len(t, stroke.Points, 2, "unknown point types are dropped")
	assert.Equal(t, "pen", stroke.Tool)
	assert.Equal(t, float64(defaultStrokeSize), stroke.Size)
}

func TestAddStrokeDropsPointsMissingCoordinates(t *testing.T) {
	svc := NewService(newFakeStrokeRepo(), slog.Default())

	y := 2.0
	stroke, err := svc.AddStroke(context.Background(), &AddStrokeParams{
		RoomId: 7,
		Points: []PointInput{
			pt("start", 1, 1),
			{Type: "move", Y: &y},
			{Type: "move"},
		},
		Color: "#000",
	})
	require.NoError(t, err)

	require.Len(t, stroke.Points, 1)
	assert.Equal(t, store.Point{Type: "start", X: 1, Y: 1}, stroke.Points[0])

	_, err = svc.AddStroke(context.Background(), &AddStrokeParams{
		RoomId: 7,
		Points: []PointInput{{Type: "start"}},
		Color:  "#000",
	})
	assert.ErrorIs(t, err, ErrNoValidPoints)
}

func TestAddStrokeKeepsEraser(t *testing.T) {
	svc := NewService(newFakeStrokeRepo(), slog.Default())

	stroke, err := svc.AddStroke(context.Background(), &AddStrokeParams{
		RoomId: 7,
		Points: []PointInput{pt("start", 1, 1)},
		Color:  "#fff",
		Tool:   "eraser",
		Size:   12,
	})
	require.NoError(t, err)

	assert.Equal(t, "eraser", stroke.Tool)
	assert.Equal(t, 12.0, stroke.Size)
}

func TestAddStrokeRejectsEmptyPolyline(t *testing.T) {
	svc := NewService(newFakeStrokeRepo(), slog.Default())

	_, err := svc.AddStroke(context.Background(), &AddStrokeParams{
		RoomId: 7,
		Points: []PointInput{pt("hover", 1, 1)},
		Color:  "#000",
	})
	assert.ErrorIs(t, err, ErrNoValidPoints)
}

func TestClearStrokes(t *testing.T) {
	repo := newFakeStrokeRepo()
	svc := NewService(repo, slog.Default())
	ctx := context.Background()

	_, err := svc.AddStroke(ctx, &AddStrokeParams{
		RoomId: 7,
		Points: []PointInput{pt("start", 0, 0)},
		Color:  "#000",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearStrokes(ctx, 7))

	strokes, err := svc.ListStrokes(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, strokes)
}
