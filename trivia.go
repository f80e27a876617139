// Quizbox Trivia Game
//
// One host display and several buzzer-holding participants share a room
// identified by a short code. The host starts the game, participants take
// turns selecting clues from a board of six categories, race to buzz in, and
// answer against the clock. Daily Doubles take a wager from the selector
// before the clue is shown; the final round takes blind wagers from every
// contestant still in the black.
//
// Features:
// - WebSockets per room code: /trivia/:code and /trivia/:code/ws
// - Room codes are 4 characters from an unambiguous alphabet, via crypto/rand
// - First connection to a fresh room becomes the host display
// - Players identified by cookie (playerID); rejoining keeps the identity
// - One command queue per room; buzzer races are settled by arrival order
// - Buzz and answer windows enforced server-side (5 s each)
// - Incorrect answers cost the clue value and lock the buzzer out for 200 ms
// - Abandoned rooms are swept after 60 s with nobody connected
// - In-browser QR button to share the current room, backed by go-qrcode

package main

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "quizbox_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// serveWSForRegistry upgrades the connection and hands the client to the
// room named by :code. Commands for a room that no longer exists are
// rejected here, at the door.
func serveWSForRegistry(cfg *Config, reg *registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := strings.ToUpper(ps.ByName("code"))
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		room := reg.get(code)
		if room == nil {
			http.Error(w, string(errRoomNotFound)+": no room with code "+code, http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		c := &client{
			conn:     conn,
			send:     make(chan any, 16),
			playerID: playerID,
		}

		if !room.attach(c) {
			_ = conn.Close()
			return
		}

		go c.writePump()
		c.readPump(room)
	}
}

func (c *client) readPump(r *room) {
	defer func() {
		r.detach(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		cmd, ok := commandFromMessage(c, msg)
		if !ok {
			// ignore unknown types
			continue
		}

		r.enqueue(cmd)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// commandFromMessage translates a wire message into a room command.
func commandFromMessage(c *client, msg ClientMessage) (command, bool) {
	cmd := command{
		client: c,
		actor:  c.playerID,
	}

	switch msg.Type {
	case "join":
		cmd.kind = cmdJoin
		cmd.name = msg.Name
	case "start_game":
		cmd.kind = cmdStartGame
	case "select_clue":
		cmd.kind = cmdSelectClue
		cmd.category = msg.Category
		cmd.clue = msg.Clue
	case "reading_complete":
		cmd.kind = cmdReadingComplete
	case "dd_wager":
		cmd.kind = cmdDailyDoubleWager
		if msg.Amount != nil {
			cmd.amount = *msg.Amount
			cmd.hasAmount = true
		}
	case "buzz":
		cmd.kind = cmdBuzz
	case "answer":
		cmd.kind = cmdAnswer
		cmd.text = msg.Text
	case "judge_answer":
		cmd.kind = cmdJudgeAnswer
		cmd.targetID = msg.TargetID
		if msg.Correct != nil {
			cmd.correct = *msg.Correct
		}
	case "return_to_board":
		cmd.kind = cmdReturnToBoard
	case "end_game":
		cmd.kind = cmdEndGame
	case "final_wager":
		cmd.kind = cmdFinalWager
		if msg.Amount != nil {
			cmd.amount = *msg.Amount
			cmd.hasAmount = true
		}
	case "final_answer":
		cmd.kind = cmdFinalAnswer
		cmd.text = msg.Text
	default:
		return command{}, false
	}

	return cmd, true
}

// QR handler: generates a PNG QR code for the current room URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:code/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed trivia/index.html
var indexHTML []byte

//go:embed trivia/app.css
var triviaCSS []byte

//go:embed trivia/app.js
var triviaJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(triviaCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(triviaJS)
	}
}

// redirectNewRoom handles GET /path by creating a new room owned by this
// player and redirecting to /path/:code.
func redirectNewRoom(cfg *Config, path string, reg *registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		room := reg.createRoom(playerID)
		http.Redirect(w, r, cfg.prefix+path+"/"+room.code, http.StatusTemporaryRedirect)
	}
}

// registerTriviaGame sets up routes so that:
//   - $path                → creates a new room and redirects to it
//   - $path/:code          → HTML client
//   - $path/:code/ws       → WebSocket for that room
//   - $path/:code/qr       → PNG QR code for that room URL
func registerTriviaGame(cfg *Config, path string, mux *httprouter.Router) error {
	boards, err := newSampleBoardProvider(cfg.boardFile)
	if err != nil {
		return err
	}

	var judge AnswerJudge
	if !cfg.manualJudging {
		judge = newNormalizedJudge()
	}

	reg := newRegistry(cfg, clockwork.NewRealClock(), boards, judge)

	// Root path → create room and redirect
	mux.GET(cfg.prefix+path, redirectNewRoom(cfg, path, reg))

	// Per-room client view (HTML)
	mux.GET(cfg.prefix+path+"/:code", getIndexHandler(cfg))

	// Shared assets (no room code in route)
	mux.GET(cfg.prefix+"/assets/trivia/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/trivia/app.js", getJsHandler(cfg))

	// Per-room websocket
	mux.GET(cfg.prefix+path+"/:code/ws", serveWSForRegistry(cfg, reg))

	// Per-room QR code
	mux.GET(cfg.prefix+path+"/:code/qr", qrHandler)

	return nil
}
