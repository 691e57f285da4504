package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, expert turns can take a while
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	token := os.Getenv("CHAT_API_TOKEN")
	if token == "" {
		color.Red("CHAT_API_TOKEN not set. Export a valid JWT first.")
		os.Exit(1)
	}

	// 1. Create a session
	color.Cyan("=== POST /chat/v1/session ===")
	resp, body, err := sendRequest("POST", "/chat/v1/session", token, nil)
	if err != nil {
		color.Red("create session failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Status: %d\n", resp.StatusCode)

	var created struct {
		Data struct {
			ChatSessionId string `json:"chat_session_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Data.ChatSessionId == "" {
		color.Red("unexpected response: %s", string(body))
		os.Exit(1)
	}
	sessionID := created.Data.ChatSessionId
	color.Green("session: %s", sessionID)

	// 2. Send a few turns and inspect the synthesized answer
	questions := []string{
		"토마토 재배 방법 알려줘",
		"토마토로 만들 수 있는 요리는?",
		"종료",
	}
	for _, q := range questions {
		color.Cyan("=== POST /chat/v1/send (%s) ===", q)
		resp, body, err = sendRequest("POST", "/chat/v1/send", token, map[string]string{
			"chat_session_id": sessionID,
			"chat":            q,
		})
		if err != nil {
			color.Red("send failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Status: %d\n", resp.StatusCode)

		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			fmt.Println(string(body))
			continue
		}
		prettyPrint(parsed)
	}

	// 3. Fetch history back
	color.Cyan("=== GET /chat/v1/session/%s/history ===", sessionID)
	resp, body, err = sendRequest("GET", "/chat/v1/session/"+sessionID+"/history", token, nil)
	if err != nil {
		color.Red("history failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Status: %d\n", resp.StatusCode)
	var history map[string]interface{}
	if err := json.Unmarshal(body, &history); err == nil {
		prettyPrint(history)
	} else {
		fmt.Println(string(body))
	}
}
