// Command smoke drives a scripted game against a running room server and
// prints every broadcast it observes. It opens an observer connection and
// a player connection, creates a room, joins it, submits a few score
// updates and finally crosses the win threshold, so a full
// start/update/finish cycle can be verified by eye.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "smoke",
		Usage: "play one scripted game against a room server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "ws://localhost:33000/ws",
				Usage: "WebSocket endpoint of the room server",
			},
			&cli.StringFlag{
				Name:  "room",
				Value: "smoke-room",
				Usage: "room hash to play in",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
				Usage: "how long to wait for broadcasts",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "smoke: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url")
	roomHash := cmd.String("room")
	timeout := cmd.Duration("timeout")

	observer, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial observer: %w", err)
	}
	defer observer.Close()

	player, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial player: %w", err)
	}
	defer player.Close()

	// Collect broadcasts in the background while the script runs.
	done := make(chan error, 1)
	go func() {
		done <- collect(observer, timeout)
	}()

	script := []string{
		fmt.Sprintf(`{"message":"create","roomHash":"%s","clientId":"smoke-a"}`, roomHash),
		fmt.Sprintf(`{"message":"join","roomHash":"%s","clientId":"smoke-b"}`, roomHash),
		fmt.Sprintf(`{"roomHash":"%s","clientId":"smoke-a","value":1.0}`, roomHash),
		fmt.Sprintf(`{"roomHash":"%s","clientId":"smoke-b","value":2.5}`, roomHash),
		fmt.Sprintf(`{"roomHash":"%s","clientId":"smoke-a","value":3.5}`, roomHash),
	}

	for _, frame := range script {
		fmt.Printf(">> %s\n", frame)
		if err := player.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return fmt.Errorf("send frame: %w", err)
		}
		time.Sleep(100 * time.Millisecond)
	}

	return <-done
}

// collect prints broadcasts until the finish announcement or the timeout.
func collect(conn *websocket.Conn, timeout time.Duration) error {
	conn.SetReadDeadline(time.Now().Add(timeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read broadcast: %w", err)
		}
		fmt.Printf("<< %s\n", data)

		if strings.Contains(string(data), `"finish"`) {
			fmt.Println("game finished")
			return nil
		}
	}
}
