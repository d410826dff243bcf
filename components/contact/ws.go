// components/contact/ws.go
//
// Live channel.  The page opens /ws?csrf=<token> and sends one JSON object
// per input event:
//
//	{"field":"email","value":"a@b.co"}
//	{"action":"submit"}
//
// Every message gets exactly one result in reply, in order.  The session
// cookie must already exist; GET / issues it.
//
//------------------------------------------------------------------------------

package contact

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/session"
)

const maxMessageBytes = 8 << 10

// message is one client event.
type message struct {
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Action string `json:"action,omitempty"`
}

func (c *Comp) serveWS(w http.ResponseWriter, r *http.Request) {
	id, ok := session.Lookup(r)
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	if !c.csrf.Verify(r.URL.Query().Get("csrf")) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.Debugw("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debugw("websocket closed", "err", err)
			}
			return
		}

		var res result
		var msg message
		switch {
		case json.Unmarshal(data, &msg) != nil:
			res = result{Errors: []string{}, Visible: []string{}, Error: "malformed message"}
		case msg.Action == "submit":
			res = c.submit(r.Context(), id)
		case msg.Action != "":
			res = result{Errors: []string{}, Visible: []string{}, Error: "unknown action " + msg.Action}
		default:
			res = c.change(id, form.Field(msg.Field), msg.Value)
		}

		if err := conn.WriteJSON(res); err != nil {
			c.log.Debugw("websocket write failed", "err", err)
			return
		}
	}
}
