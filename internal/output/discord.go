package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/cyjobs/internal/model"
)

// DiscordWriter sends matched jobs to a Discord channel via webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordWriter(webhookURL string) *DiscordWriter {
	return &DiscordWriter{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (dw *DiscordWriter) WriteJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	header := fmt.Sprintf("**Found %d job(s):**\n\n", len(jobs))
	entries := make([]string, len(jobs))
	for i, j := range jobs {
		entries[i] = formatDiscordJob(i+1, j)
	}

	// Discord has a 2000 char limit per message.
	for _, c := range chunk(header, entries, 1900) {
		if err := dw.send(c); err != nil {
			return err
		}
	}
	return nil
}

func formatDiscordJob(n int, j model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. %s**\n", n, j.DisplayTitle())
	fmt.Fprintf(&b, "> Keywords: %s\n", j.KeywordList())
	if j.PostedDate != "" {
		fmt.Fprintf(&b, "> Posted: %s\n", j.PostedDate)
	}
	if j.Link != "" {
		fmt.Fprintf(&b, "> <%s>\n", j.Link)
	}
	b.WriteString("\n")
	return b.String()
}

type discordPayload struct {
	Content string `json:"content"`
}

func (dw *DiscordWriter) send(text string) error {
	payload, err := json.Marshal(discordPayload{Content: text})
	if err != nil {
		return fmt.Errorf("discord: marshaling payload: %w", err)
	}

	resp, err := dw.client.Post(dw.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("discord: API error %d: %s", resp.StatusCode, result.Message)
	}
	return nil
}
