package internal

// Player is one seat in a room. Id is the connection handle currently bound to
// the seat; UserId is the stable account identifier.
type Player struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	UserId   string `json:"userId"`
}

func accountIDs(players []*Player) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.UserId)
	}
	return ids
}
