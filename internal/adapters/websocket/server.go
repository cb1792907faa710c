package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/factorysim-go/internal/adapters/textcmd"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
)

var errFilesDisabled = errors.New("file commands are not available to remote sessions")

// Config tunes the session server
type Config struct {
	RatePerSecond float64
	Burst         int
	IdleTimeout   time.Duration
	EventLimit    int
}

// Server upgrades HTTP requests to websocket connections and runs session commands sent over
// them. Each connection handles its messages in order.
type Server struct {
	mediator common.Mediator
	executor *textcmd.Executor
	upgrader websocket.Upgrader
	cfg      Config
	logger   common.ContainerLogger
}

func NewServer(m common.Mediator, cfg Config, logger common.ContainerLogger) *Server {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if cfg.EventLimit <= 0 {
		cfg.EventLimit = 200
	}
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	noFiles := func(string) ([]byte, error) { return nil, errFilesDisabled }
	return &Server{
		mediator: m,
		executor: textcmd.NewExecutor(m).WithFiles(noFiles, func(string, []byte) error { return errFilesDisabled }),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Log("WARN", "websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	ctx := common.WithLogger(r.Context(), s.logger)
	s.logger.Log("INFO", "client connected", map[string]interface{}{"connection_id": connID, "remote": r.RemoteAddr})
	err = s.serve(ctx, conn)
	s.logger.Log("INFO", "client disconnected", map[string]interface{}{"connection_id": connID, "reason": fmt.Sprint(err)})
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) error {
	limiter := rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), s.cfg.Burst)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg Message
		var resp *Response
		switch {
		case json.Unmarshal(data, &msg) != nil:
			resp = &Response{Action: "error", Status: "error", Error: "Invalid Message", Details: "message is not valid JSON"}
		case !limiter.Allow():
			resp = failure(&msg, fmt.Errorf("rate limit exceeded"))
		default:
			resp = s.dispatch(ctx, &msg)
		}
		if err := conn.WriteJSON(resp); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(ctx context.Context, msg *Message) *Response {
	var (
		response common.Response
		err      error
	)
	switch msg.Action {
	case ActionNewSession:
		response, err = s.mediator.Send(ctx, &appsim.NewSessionCommand{Name: msg.Name, Config: msg.JSONData})
	case ActionLoadSession:
		response, err = s.mediator.Send(ctx, &appsim.GetSessionQuery{SessionID: msg.SessionID, EventLimit: s.cfg.EventLimit})
	case ActionLoadCommand:
		response, err = s.mediator.Send(ctx, &appsim.LoadConfigCommand{SessionID: msg.SessionID, Config: msg.JSONData})
	case ActionNewBuilding:
		response, err = s.mediator.Send(ctx, &appsim.CreateBuildingCommand{SessionID: msg.SessionID, Descriptor: msg.JSONData})
	case ActionCommand, ActionTextCommand:
		response, err = s.executor.Execute(ctx, msg.SessionID, msg.Command)
	case ActionListSessions:
		response, err = s.mediator.Send(ctx, &appsim.ListSessionsQuery{})
	case ActionDeleteSession:
		response, err = s.mediator.Send(ctx, &appsim.DeleteSessionCommand{SessionID: msg.SessionID})
	default:
		err = fmt.Errorf("unknown action '%s'", msg.Action)
	}
	if err != nil {
		return failure(msg, err)
	}
	return success(msg, response)
}

func success(msg *Message, response common.Response) *Response {
	resp := &Response{ID: msg.ID, Action: msg.Action + "-result", SessionID: msg.SessionID, Status: "ok"}
	switch r := response.(type) {
	case *appsim.SessionResult:
		resp.SessionID = r.SessionID
		resp.Cycle = r.Cycle
		resp.JSONData = r.Document
		resp.Output = r.Output
		resp.Value = r.Value
	case nil:
	default:
		resp.Value = r
	}
	return resp
}

func failure(msg *Message, err error) *Response {
	reason := "Invalid Command"
	var invalid *textcmd.ErrInvalidCommand
	if !errors.As(err, &invalid) && msg.Action != ActionCommand && msg.Action != ActionTextCommand {
		reason = "Request Failed"
	}
	return &Response{
		ID:        msg.ID,
		Action:    msg.Action + "-result",
		SessionID: msg.SessionID,
		Status:    "error",
		Error:     reason,
		Details:   err.Error(),
	}
}
