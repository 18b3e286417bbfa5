package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/cyjobs/internal/model"
)

const telegramAPI = "https://api.telegram.org"

// TelegramWriter sends matched jobs to a Telegram chat via the Bot API.
type TelegramWriter struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

func NewTelegramWriter(token, chatID string) *TelegramWriter {
	return &TelegramWriter{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPI,
		client:  &http.Client{},
	}
}

func (tw *TelegramWriter) WriteJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	header := fmt.Sprintf("*Found %d job\\(s\\):*\n\n", len(jobs))
	entries := make([]string, len(jobs))
	for i, j := range jobs {
		entries[i] = formatTelegramJob(i+1, j)
	}

	// Telegram has a 4096 char limit per message.
	for _, chunk := range chunk(header, entries, 3800) {
		if err := tw.send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func formatTelegramJob(n int, j model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(j.DisplayTitle()))
	fmt.Fprintf(&b, "Keywords: %s\n", escapeMarkdown(j.KeywordList()))
	if j.PostedDate != "" {
		fmt.Fprintf(&b, "Posted: %s\n", escapeMarkdown(j.PostedDate))
	}
	if j.Link != "" {
		fmt.Fprintf(&b, "[Open](%s)\n", j.Link)
	}
	b.WriteString("\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
		">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
		"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
		".", "\\.", "!", "\\!",
	)
	return replacer.Replace(s)
}

func (tw *TelegramWriter) send(text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", tw.apiBase, tw.token)

	body, err := json.Marshal(map[string]string{
		"chat_id":    tw.chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	})
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	resp, err := tw.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result struct {
			Description string `json:"description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error %d: %s", resp.StatusCode, result.Description)
	}
	return nil
}

// chunk packs header and entries into messages no longer than limit.
func chunk(header string, entries []string, limit int) []string {
	var chunks []string
	var current strings.Builder
	current.WriteString(header)

	for _, entry := range entries {
		if current.Len() > 0 && current.Len()+len(entry) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
