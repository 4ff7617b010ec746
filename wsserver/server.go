// Package wsserver generalizes the teacher's spreadsheet live-update
// server (spreadsheet/server.go's gorilla/websocket Server type) from a
// toy scripting-language spreadsheet to sheetengine's cell engine: the
// same upgrade-then-broadcast shape, the same client-set-under-mutex
// pattern, retargeted to engine.Engine's SetLiteral/SetFormula/Recompute.
package wsserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"sheetengine/address"
	"sheetengine/engine"
	"sheetengine/notify"
	"sheetengine/value"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// UpdateRequest is a client-to-server message: set a cell, or clear one.
type UpdateRequest struct {
	Type  string `json:"type"`
	Sheet string `json:"sheet"`
	Cell  string `json:"cell"`
	Value string `json:"value"`
}

// UpdateResponse is a server-to-client message describing one cell's
// current entry and evaluated display value.
type UpdateResponse struct {
	Type    string `json:"type"`
	Sheet   string `json:"sheet"`
	Cell    string `json:"cell"`
	Source  string `json:"source"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// Server broadcasts cell updates to every connected client over
// WebSocket as the underlying engine recomputes.
type Server struct {
	Engine *engine.Engine

	// Notifier, if set, also publishes every affected cell over the
	// out-of-process dirty-cell event bus after each recompute pass.
	Notifier *notify.Publisher

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New wraps eng for live updates.
func New(eng *engine.Engine) *Server {
	return &Server{Engine: eng, clients: make(map[*websocket.Conn]bool)}
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("wsserver: upgrade error:", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var req UpdateRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Println("wsserver: bad message:", err)
			continue
		}
		s.ApplyUpdate(req)
	}
}

// ApplyUpdate performs one client request against the engine and
// broadcasts the affected cells, independent of how the request arrived.
func (s *Server) ApplyUpdate(req UpdateRequest) {
	addr, err := parseCellRef(req.Sheet, req.Cell)
	if err != nil {
		log.Println("wsserver: bad cell ref:", err)
		return
	}

	var affected []address.Address
	if req.Type == "clear" {
		s.Engine.Clear(addr)
		affected, _ = s.Engine.Recompute(addr)
	} else {
		affected = s.setCell(addr, req.Value)
	}
	s.broadcast(affected)
	s.publish(affected)
}

// publish forwards affected to the notify bus, if one is wired in.
func (s *Server) publish(affected []address.Address) {
	if s.Notifier == nil || len(affected) == 0 {
		return
	}
	if err := s.Notifier.Publish(affected, s.Engine.Get); err != nil {
		log.Printf("wsserver: notify publish failed: %v", err)
	}
}

func (s *Server) setCell(addr address.Address, raw string) []address.Address {
	if len(raw) > 0 && raw[0] == '=' {
		if err := s.Engine.SetFormula(addr, raw); err != nil {
			log.Printf("wsserver: set formula %s: %v", addr, err)
			return nil
		}
	} else {
		s.Engine.SetLiteral(addr, literalFromText(raw))
	}
	affected, _ := s.Engine.Recompute(addr)
	return affected
}

func (s *Server) broadcast(affected []address.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, addr := range affected {
		resp := s.responseFor(addr)
		for client := range s.clients {
			if err := client.WriteJSON(resp); err != nil {
				log.Printf("wsserver: write failed: %v", err)
				client.Close()
				delete(s.clients, client)
			}
		}
	}
}

func (s *Server) responseFor(addr address.Address) UpdateResponse {
	v := s.Engine.Get(addr)
	source, _ := s.Engine.Source(addr)
	resp := UpdateResponse{
		Type:    "cell_updated",
		Sheet:   addr.Sheet,
		Cell:    address.ColumnLetters(addr.Col) + strconv.Itoa(addr.Row),
		Source:  source,
		Display: v.String(),
	}
	if v.IsError() {
		resp.Error = string(v.Err)
	}
	return resp
}

func parseCellRef(sheet, cell string) (address.Address, error) {
	r, err := address.Parse(cell, sheet)
	if err != nil {
		return address.Address{}, err
	}
	return r.Start, nil
}

func literalFromText(raw string) value.Value {
	switch raw {
	case "":
		return value.Empty
	case "TRUE", "true":
		return value.Bool(true)
	case "FALSE", "false":
		return value.Bool(false)
	}
	if f, _, ok := value.ToNumber(value.Text(raw)); ok {
		return value.Number(f)
	}
	return value.Text(raw)
}
