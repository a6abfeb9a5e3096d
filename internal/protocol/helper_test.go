package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgJoinRoom, JoinRoomPayload{RoomCode: "ABC123"})
	require.NoError(t, err)
	assert.Equal(t, MsgJoinRoom, msg.Type)
	assert.JSONEq(t, `{"room_code":"ABC123"}`, string(msg.Payload))
}

func TestNewMessageNilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgPing, nil)
	require.NoError(t, err)
	assert.Equal(t, MsgPing, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	original := MustNewMessage(MsgPlayCards, PlayCardsPayload{
		Cards: []CardInfo{{Suit: 0, Rank: 11, ID: "Q♠"}},
	})

	data, err := original.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original.Type, decoded.Type)

	payload, err := ParsePayload[PlayCardsPayload](decoded)
	require.NoError(t, err)
	require.Len(t, payload.Cards, 1)
	assert.Equal(t, "Q♠", payload.Cards[0].ID)
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestParsePayloadTypeMismatch(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(MsgError, ErrorPayload{Code: ErrCodeNotYourTurn, Message: "x"})
	_, err := ParsePayload[PingPayload](msg)
	// 字段不重叠但 JSON 结构合法，解析成功但内容为零值
	require.NoError(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(ErrCodeNotYourTurn)
	assert.Equal(t, MsgError, msg.Type)

	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeNotYourTurn, payload.Code)
	assert.Equal(t, ErrorMessages[ErrCodeNotYourTurn], payload.Message)
}

func TestNewErrorMessageWithText(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessageWithText(ErrCodeCannotDeclare, "手牌无法一次打空")
	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeCannotDeclare, payload.Code)
	assert.Equal(t, "手牌无法一次打空", payload.Message)
}
