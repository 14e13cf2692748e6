// Dev smoke script: fills a locally running server with plaza content and
// walks it through moderation. Needs a bound author token and an admin token:
//
//	AUTHOR_TOKEN=... ADMIN_TOKEN=... go run scripts/seed-plaza.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const apiBase = "http://localhost:8080/v1"

type submission struct {
	UUID string `json:"uuid"`
}

type deviceLoginResponse struct {
	AccessToken string `json:"accessToken"`
}

func post(path, token string, body interface{}, out interface{}) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, apiBase+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s failed (%d): %s", path, resp.StatusCode, string(raw))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func main() {
	authorToken := os.Getenv("AUTHOR_TOKEN")
	adminToken := os.Getenv("ADMIN_TOKEN")
	if authorToken == "" || adminToken == "" {
		fmt.Fprintln(os.Stderr, "AUTHOR_TOKEN and ADMIN_TOKEN are required")
		os.Exit(1)
	}

	prompts := []map[string]interface{}{
		{
			"title":       "Clockwork Orchard",
			"description": "Trees that tick, fruit that chimes",
			"params":      map[string]interface{}{"temperature": 0.9, "tags": []string{"steampunk"}},
		},
		{
			"title":       "The Last Lighthouse",
			"description": "A keeper who never sleeps",
			"params":      map[string]interface{}{"temperature": 0.7, "tags": []string{"mystery"}},
		},
		{
			"title":       "Paper Dragons",
			"description": "Origami that remembers being folded",
			"params":      map[string]interface{}{"temperature": 1.1, "tags": []string{"whimsy"}},
		},
	}

	var created []string
	for _, p := range prompts {
		var sub submission
		if err := post("/plaza/prompts", authorToken, p, &sub); err != nil {
			fmt.Fprintf(os.Stderr, "submit: %v\n", err)
			os.Exit(1)
		}
		created = append(created, sub.UUID)
		fmt.Printf("submitted prompt %s (%s)\n", p["title"], sub.UUID)
	}

	// Approve all but the last; reject that one so the author's "mine" view
	// has something in every state once another prompt is submitted.
	for i, id := range created {
		if i == len(created)-1 {
			err := post("/admin/review/prompt/"+id+"/reject", adminToken,
				map[string]string{"reason": "seed data: rejected on purpose"}, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reject: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("rejected %s\n", id)
			continue
		}
		if err := post("/admin/review/prompt/"+id+"/approve", adminToken, nil, nil); err != nil {
			fmt.Fprintf(os.Stderr, "approve: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("approved %s\n", id)
	}

	// A handful of device accounts like and download the approved prompts.
	for i := 0; i < 3; i++ {
		var login deviceLoginResponse
		deviceID := fmt.Sprintf("seed-device-%d", i)
		if err := post("/auth/device-login", "", map[string]string{"deviceId": deviceID}, &login); err != nil {
			fmt.Fprintf(os.Stderr, "device login: %v\n", err)
			os.Exit(1)
		}
		for _, id := range created[:len(created)-1] {
			if err := post("/plaza/prompt/"+id+"/like", login.AccessToken, nil, nil); err != nil {
				fmt.Fprintf(os.Stderr, "like: %v\n", err)
			}
			if err := post("/plaza/prompt/"+id+"/download", login.AccessToken, nil, nil); err != nil {
				fmt.Fprintf(os.Stderr, "download: %v\n", err)
			}
		}
		fmt.Printf("device %s liked and downloaded %d prompts\n", deviceID, len(created)-1)
	}

	fmt.Println("done")
}
