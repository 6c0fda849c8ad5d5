package connect

const (
	actionJoin  = "join"
	actionLeave = "leave"
)

const (
	eventConnected = "connected"
	eventJoined    = "joined"
	eventLeft      = "left"
	eventError     = "error"
)

type handshakeMessage struct {
	Auth *struct {
		Token string `json:"token"`
	} `json:"auth"`
}

type clientCommand struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

type connectedPayload struct {
	SessionID string   `json:"sessionId"`
	UserID    string   `json:"userId"`
	Rooms     []string `json:"rooms"`
}

type roomPayload struct {
	Room string `json:"room"`
}

type errorPayload struct {
	Error string `json:"error"`
}
