package store

type CreateUserParams struct {
	Username     string
	PasswordHash string
}

type CreateRoomParams struct {
	Title     string
	Subject   *string
	VideoURL  *string
	CreatedBy string
}

type UpdateRoomParams struct {
	RoomId   int64
	Title    *string
	Subject  *string
	VideoURL *string
}

type ListRoomsParams struct {
	Limit  int
	Offset int
}

type CreateMessageParams struct {
	RoomId  int64
	UserId  string
	Content string
}

type CreateCommentParams struct {
	RoomId         int64
	UserId         string
	Content        string
	VideoTimestamp float64
}

type CreateStrokeParams struct {
	RoomId    int64
	Points    []Point
	Color     string
	Tool      string
	Size      float64
	CreatedBy *string
}

type CreateAssistantMessageParams struct {
	RoomId  int64
	UserId  *string
	Role    string
	Content string
}

type ListAssistantMessagesParams struct {
	RoomId int64
	Limit  int
}
