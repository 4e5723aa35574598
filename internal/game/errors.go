package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrWrongPassword      = errors.New("wrong room password")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameNotInProgress  = errors.New("game is not in progress")
	ErrGameNotOver        = errors.New("game is not over")
	ErrNotHost            = errors.New("only the host may do this")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrAlreadyInRoom      = errors.New("connection already holds another seat in this room")
	ErrMissingTeamMembers = errors.New("each team needs at least one player")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrUnknownAction      = errors.New("unknown player action")
	ErrInvalidName        = errors.New("name must not be empty")
	ErrEmptyDeck          = errors.New("no cards for the selected category")
	ErrRoomCodeExhausted  = errors.New("could not allocate a unique room code")
)

// userMessages are shown to players verbatim.
var userMessages = []struct {
	err error
	msg string
}{
	{ErrRoomNotFound, "Oda bulunamadı."},
	{ErrWrongPassword, "Yanlış oda şifresi."},
	{ErrGameAlreadyStarted, "Oyun zaten başladı."},
	{ErrGameNotInProgress, "Oyun şu anda oynanmıyor."},
	{ErrGameNotOver, "Oyun henüz bitmedi."},
	{ErrNotHost, "Bu işlemi sadece oda sahibi yapabilir."},
	{ErrNotYourTurn, "Sıra sizde değil."},
	{ErrAlreadyInRoom, "Bu bağlantı odada zaten başka bir oyuncuya ait."},
	{ErrMissingTeamMembers, "Oyunu başlatmak için her takımda en az bir oyuncu olmalıdır."},
	{ErrUnknownTeam, "Geçersiz takım."},
	{ErrUnknownAction, "Geçersiz hamle."},
	{ErrInvalidName, "İsim boş olamaz."},
	{ErrEmptyDeck, "Bu kategori için kelime bulunamadı."},
	{ErrRoomCodeExhausted, "Oda oluşturulamadı, lütfen tekrar deneyin."},
}

// UserMessage maps a game error to the message sent in an error event.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Sunucu hatası oluştu."
}
