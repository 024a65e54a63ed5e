package internal

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

func NewMessage[T any](msgType string, data T) Message[any] {
	return Message[any]{Type: msgType, Data: data}
}

// Outbound event names.
const (
	EventSession        = "session"
	EventRoomCreated    = "roomCreated"
	EventError          = "error"
	EventUserJoined     = "userJoined"
	EventUserLeft       = "userLeft"
	EventRoomHistory    = "roomHistory"
	EventReceiveMessage = "receiveMessage"
	EventUpdateScores   = "updateScores"
	EventGameStarted    = "gameStarted"
	EventSelectWord     = "selectWord"
	EventStartDrawing   = "startDrawing"
	EventDrawingStarted = "drawingStarted"
	EventTimerUpdate    = "timerUpdate"
	EventWordHint       = "wordHintUpdate"
	EventRoundEnded     = "roundEnded"
	EventGameEnded      = "gameEnded"
	EventReturnToLobby  = "returnToLobby"

	// relayed verbatim from the drawer
	EventBeginPath      = "beginPath"
	EventDrawLine       = "drawLine"
	EventChangeConfig   = "changeConfig"
	EventClearCanvas    = "clearCanvas"
	EventActionMenu     = "actionMenuEvent"
	EventMenuItemChange = "menuItemChange"
)

type SessionData struct {
	PlayerID string `json:"playerId"`
}

type RoomCreatedData struct {
	RoomID string `json:"roomId"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type PlayersData struct {
	Players []PlayerSnapshot `json:"players"`
}

type MembershipData struct {
	Message string           `json:"message"`
	Players []PlayerSnapshot `json:"players"`
}

type RoomHistoryData struct {
	Chat    []ChatMessage    `json:"chat"`
	Drawing []StrokeRecord   `json:"drawing"`
	Players []PlayerSnapshot `json:"players"`
	State   GameState        `json:"state"`
}

type GameStartedData struct {
	Players       []PlayerSnapshot `json:"players"`
	CurrentDrawer string           `json:"currentDrawer"`
}

type SelectWordData struct {
	Words    []string `json:"words"`
	TimeLeft int      `json:"timeLeft"`
}

type StartDrawingData struct {
	Word string `json:"word"`
}

type DrawingStartedData struct {
	Drawer     string `json:"drawer"`
	WordLength int    `json:"wordLength"`
}

type TimerUpdateData struct {
	TimeLeft int       `json:"timeLeft"`
	State    GameState `json:"state"`
}

type WordHintData struct {
	Hint string `json:"hint"`
}

type RoundEndedData struct {
	Word            string   `json:"word"`
	CorrectGuessers []string `json:"correctGuessers"`
	NextRoundIn     int      `json:"nextRoundIn"`
}

type GameEndedData struct {
	Winner  *PlayerSnapshot  `json:"winner"`
	Players []PlayerSnapshot `json:"players"`
}

type RoomRef struct {
	Room string `json:"room"`
}

// Response is the envelope for plain HTTP endpoints.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_start_time"`
	RespEndTime   int64 `json:"resp_end_time"`
	NetRespTime   int64 `json:"net_resp_time"`
	Data          any   `json:"data"`
}
