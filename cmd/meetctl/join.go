package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mossy-p/meeting-signaling/internal/models"
)

type joinOptions struct {
	url    string
	team   string
	user   string
	name   string
	codec  string
	dump   bool
	stdin  io.Reader
	output io.Writer
}

func newJoinCmd() *cobra.Command {
	opts := &joinOptions{}
	cmd := &cobra.Command{
		Use:   "join <team-id> <user-id>",
		Short: "Join a team room and print the events it receives",
		Long: `Join a team room as a participant and print every event pushed by the
server. Lines typed on stdin toggle media:

  cam on|off    mic on|off    share    unshare    leave`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.team, opts.user = args[0], args[1]
			opts.stdin = cmd.InOrStdin()
			opts.output = cmd.OutOrStdout()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return runJoin(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "ws://localhost:8080/ws/meetings", "signaling socket URL")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name (defaults to the user id)")
	cmd.Flags().StringVar(&opts.codec, "codec", "json", "wire codec subprotocol: json or msgpack")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump every decoded payload")
	return cmd
}

func runJoin(ctx context.Context, opts *joinOptions) error {
	codec := models.CodecByName(opts.codec)
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		Subprotocols:     []string{codec.Name()},
	}
	conn, _, err := dialer.DialContext(ctx, opts.url, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s", opts.url)
	}
	defer conn.Close()

	name := opts.name
	if name == "" {
		name = opts.user
	}
	user := models.UserPayload{
		TeamID: opts.team,
		User:   map[string]any{"_id": opts.user, "name": name},
	}

	send := func(ev models.Event, data any) error {
		b, err := codec.Encode(models.Frame{Event: ev, Data: data})
		if err != nil {
			return err
		}
		mt := websocket.TextMessage
		if codec.Binary() {
			mt = websocket.BinaryMessage
		}
		return conn.WriteMessage(mt, b)
	}

	if err := send(models.EventJoinTeamRoom, opts.team); err != nil {
		return err
	}
	if err := send(models.EventUserJoined, user); err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() { readErr <- readEvents(conn, codec, opts) }()

	commands := make(chan string)
	go scanCommands(opts.stdin, commands)

	for {
		select {
		case <-ctx.Done():
			_ = send(models.EventUserLeft, user)
			return nil
		case err := <-readErr:
			return err
		case line, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			ev, payload, err := parseCommand(line, opts.user)
			if err != nil {
				printError(err.Error())
				continue
			}
			if ev == models.EventUserLeft {
				return send(ev, user)
			}
			if err := send(ev, payload); err != nil {
				return err
			}
		}
	}
}

func readEvents(conn *websocket.Conn, codec models.Codec, opts *joinOptions) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Wrap(err, "read")
		}
		ev, data, err := codec.Decode(msg)
		if err != nil {
			printError(err.Error())
			continue
		}
		var payload any
		if len(data) > 0 {
			if err := codec.Unmarshal(data, &payload); err != nil {
				printError(err.Error())
				continue
			}
		}
		fmt.Fprintln(opts.output, formatEvent(time.Now(), ev, summarize(payload)))
		if opts.dump {
			fmt.Fprint(opts.output, spew.Sdump(payload))
		}
	}
}

func scanCommands(r io.Reader, out chan<- string) {
	defer close(out)
	if r == nil {
		return
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out <- line
		}
	}
}

// parseCommand turns a stdin line into the event it stands for.
func parseCommand(line, userID string) (models.Event, any, error) {
	fields := strings.Fields(strings.ToLower(line))
	on := len(fields) > 1 && fields[1] == "on"
	switch fields[0] {
	case "cam", "camera":
		return models.EventToggleCamera, models.MediaPayload{UserID: userID, CameraOn: &on}, nil
	case "mic":
		return models.EventToggleMic, models.MediaPayload{UserID: userID, MicOn: &on}, nil
	case "share":
		return models.EventSharingScreen, models.MediaPayload{UserID: userID}, nil
	case "unshare":
		return models.EventStopSharingScreen, models.MediaPayload{UserID: userID}, nil
	case "leave":
		return models.EventUserLeft, nil, nil
	}
	return "", nil, errors.Errorf("unknown command %q", fields[0])
}

// summarize renders a payload on one line.
func summarize(payload any) string {
	if payload == nil {
		return ""
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(b)
}
