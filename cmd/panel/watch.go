package main

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

func newWatchCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print engine events from a running panel serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), addr, nil)
			if err != nil {
				return fmt.Errorf("dial: %w", err)
			}
			defer conn.Close()

			out := cmd.OutOrStdout()
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
						return nil
					}
					return fmt.Errorf("read: %w", err)
				}

				var ev domain.Event
				if err := json.Unmarshal(data, &ev); err != nil {
					fmt.Fprintf(out, "? %s\n", data)
					continue
				}
				payload, _ := json.Marshal(ev.Payload)
				fmt.Fprintf(out, "#%d %s %s\n", ev.Seq, ev.Type, payload)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8080/v1/events", "event feed websocket URL")
	return cmd
}
