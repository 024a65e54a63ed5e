package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/scythe504/sketchroom/internal"
)

// Inbound event names.
const (
	EventCreateRoom     = "createRoom"
	EventJoinRoom       = "joinRoom"
	EventBeginPath      = internal.EventBeginPath
	EventDrawLine       = internal.EventDrawLine
	EventChangeConfig   = internal.EventChangeConfig
	EventClearCanvas    = internal.EventClearCanvas
	EventSendMessage    = "sendMessage"
	EventActionMenu     = internal.EventActionMenu
	EventMenuItemChange = internal.EventMenuItemChange
	EventStartGame      = "startGame"
	EventSelectWord     = "selectWord"
)

var ErrUnknownEvent = errors.New("unknown event type")

type CreateRoomPayload struct {
	Room string `json:"room" validate:"omitempty,roomid"`
	Name string `json:"name" validate:"required,max=24"`
}

type JoinRoomPayload struct {
	Room string `json:"room" validate:"required,roomid"`
	Name string `json:"name" validate:"required,max=24"`
}

type BeginPathPayload struct {
	Room     string  `json:"room" validate:"required,roomid"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color" validate:"max=32"`
	Size     float64 `json:"size" validate:"gte=0,lte=200"`
	IsEraser bool    `json:"isEraser,omitempty"`
}

type DrawLinePayload struct {
	Room string  `json:"room" validate:"required,roomid"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ChangeConfigPayload struct {
	Room  string  `json:"room" validate:"required,roomid"`
	Color string  `json:"color" validate:"max=32"`
	Size  float64 `json:"size" validate:"gte=0,lte=200"`
}

type ClearCanvasPayload struct {
	Room string `json:"room" validate:"required,roomid"`
}

type ChatPayload struct {
	Sender string `json:"sender" validate:"max=24"`
	Text   string `json:"text" validate:"required,max=200"`
	Time   string `json:"time" validate:"max=32"`
}

type SendMessagePayload struct {
	Room    string      `json:"room" validate:"required,roomid"`
	Message ChatPayload `json:"message"`
}

type ActionMenuPayload struct {
	Room           string `json:"room" validate:"required,roomid"`
	Action         string `json:"action" validate:"required,max=16"`
	HistoryPointer int    `json:"historyPointer" validate:"gte=-1"`
}

type MenuItemPayload struct {
	Room     string `json:"room" validate:"required,roomid"`
	MenuItem string `json:"menuItem" validate:"required,max=32"`
}

type StartGamePayload struct {
	Room string `json:"room" validate:"required,roomid"`
}

type SelectWordPayload struct {
	Room string `json:"room" validate:"required,roomid"`
	Word string `json:"word" validate:"required,max=64"`
}

// relayEvents are high-frequency room events whose lookup failures are
// stale client state and never reported back.
var relayEvents = map[string]bool{
	EventBeginPath:      true,
	EventDrawLine:       true,
	EventChangeConfig:   true,
	EventClearCanvas:    true,
	EventSendMessage:    true,
	EventActionMenu:     true,
	EventMenuItemChange: true,
}

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("roomid", func(fl validator.FieldLevel) bool {
		return roomIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// DecodeEvent turns a frame into its typed payload and validates it.
func DecodeEvent(v *validator.Validate, frame internal.Message[json.RawMessage]) (any, error) {
	var payload any
	switch frame.Type {
	case EventCreateRoom:
		payload = &CreateRoomPayload{}
	case EventJoinRoom:
		payload = &JoinRoomPayload{}
	case EventBeginPath:
		payload = &BeginPathPayload{}
	case EventDrawLine:
		payload = &DrawLinePayload{}
	case EventChangeConfig:
		payload = &ChangeConfigPayload{}
	case EventClearCanvas:
		payload = &ClearCanvasPayload{}
	case EventSendMessage:
		payload = &SendMessagePayload{}
	case EventActionMenu:
		payload = &ActionMenuPayload{}
	case EventMenuItemChange:
		payload = &MenuItemPayload{}
	case EventStartGame:
		payload = &StartGamePayload{}
	case EventSelectWord:
		payload = &SelectWordPayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, frame.Type)
	}

	if len(frame.Data) == 0 {
		return nil, errors.New("missing event data")
	}
	if err := json.Unmarshal(frame.Data, payload); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", frame.Type, err)
	}
	if err := v.Struct(payload); err != nil {
		return nil, validationError(err)
	}
	return payload, nil
}

// validationError flattens validator output into a single user-facing line.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	})
	return errors.New(strings.Join(msgs, "; "))
}
