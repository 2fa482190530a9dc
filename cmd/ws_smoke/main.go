package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Plays the circuit challenge against a running server over REST + WebSocket.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("127.0.0.1:%s", port)

	res, err := http.Post("http://"+base+"/api/v1/sessions", "application/json", nil)
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	var created struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	err = json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()
	if err != nil || res.StatusCode != http.StatusCreated {
		log.Fatalf("create session: status=%d err=%v", res.StatusCode, err)
	}
	log.Printf("session %s created", created.SessionID)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", base, created.Token), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send := func(frame string) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			log.Fatalf("write: %v", err)
		}
	}

	// drain until the first state frame whose screen matches
	waitScreen := func(screen string) map[string]any {
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				continue
			}
			var obj struct {
				Type    string         `json:"type"`
				Payload map[string]any `json:"payload"`
			}
			if json.Unmarshal(msg, &obj) != nil || obj.Type != "state" {
				log.Printf("got: %s", string(msg))
				continue
			}
			state, _ := obj.Payload["state"].(map[string]any)
			if state["screen"] == screen {
				return obj.Payload
			}
		}
		log.Fatalf("timed out waiting for screen %s", screen)
		return nil
	}

	waitScreen("intro")
	send(`{"type":"op","op":"start"}`)
	waitScreen("menu")

	send(`{"type":"op","op":"select","challenge_id":"engineering-1"}`)
	waitScreen("challenge")

	wires := [][2]string{
		{"battery", "resistor1"},
		{"resistor1", "led1"},
		{"led1", "switch1"},
		{"switch1", "ground1"},
		{"resistor1", "capacitor"},
		{"capacitor", "resistor2"},
		{"resistor2", "ground2"},
	}
	for _, w := range wires {
		for _, p := range w {
			send(fmt.Sprintf(`{"type":"move","move":{"action":"select","point":%q}}`, p))
		}
	}

	final := waitScreen("menu")
	state := final["state"].(map[string]any)
	log.Printf("circuit repaired, progress=%v elapsed=%v", state["progress_percent"], state["elapsed_seconds"])

	log.Println("smoke test finished")
}
