package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jpillora/backoff"
	"golang.org/x/time/rate"

	"FibSentinel/internal/logger"
)

const (
	// maxMessageLen is Telegram's limit for a single text message.
	maxMessageLen = 4096
	// tagHeadroom is kept free in each part for re-opened and closing tags.
	tagHeadroom = 128
)

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	api     *tgbotapi.BotAPI
	ChatID  int64
	limiter *rate.Limiter
	log     *logger.Logger

	retryMin time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
// It calls getMe, so a bad token fails here.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string, log *logger.Logger) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 40 * time.Second, Transport: transport}
	return newTelegramNotifier(botToken, tgbotapi.APIEndpoint, chatID, client, log)
}

func newTelegramNotifier(botToken, endpoint string, chatID int64, client *http.Client, log *logger.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	log.Infof("telegram authorized as @%s", api.Self.UserName)

	return &TelegramNotifier{
		api:      api,
		ChatID:   chatID,
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
		log:      log.With("component", "telegram"),
		retryMin: time.Second,
	}, nil
}

// Send sends a message to the configured chat, split on line boundaries
// when it exceeds Telegram's length limit.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	_, err := t.sendParts(ctx, splitMessage(text, maxMessageLen-tagHeadroom))
	return err
}

// sendParts returns how many parts went out before the first failure.
func (t *TelegramNotifier) sendParts(ctx context.Context, parts []string) (int, error) {
	for i, part := range parts {
		if err := t.limiter.Wait(ctx); err != nil {
			return i, fmt.Errorf("rate limiter wait: %w", err)
		}
		msg := tgbotapi.NewMessage(t.ChatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := t.api.Send(msg); err != nil {
			return i, fmt.Errorf("send message part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return len(parts), nil
}

// SendWithRetry sends a message with exponential backoff retry. A retry
// resumes at the part that failed.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	b := &backoff.Backoff{Min: t.retryMin, Max: 30 * time.Second, Factor: 2}
	parts := splitMessage(text, maxMessageLen-tagHeadroom)
	sent := 0

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		n, err := t.sendParts(ctx, parts[sent:])
		sent += n
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		wait := b.Duration()
		t.log.Warnf("telegram send failed (attempt %d/%d, %d/%d parts sent): %v, retrying in %v",
			i+1, maxRetries+1, sent, len(parts), err, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

var htmlTag = regexp.MustCompile(`<(/?)([a-zA-Z]+)[^>]*>`)

// splitMessage cuts text into parts of at most limit runes, preferring line
// boundaries and never cutting inside a tag or entity. Tags left open at a
// cut are closed at the end of the part and re-opened at the start of the next.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(line)
			cut := safeCut(r, limit)
			parts = append(parts, string(r[:cut]))
			line = string(r[cut:])
			n -= cut
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return balanceTags(parts)
}

// safeCut moves a cut at limit back to before an unterminated tag or entity.
func safeCut(r []rune, limit int) int {
	head := string(r[:limit])
	cut := limit
	if lt := strings.LastIndexByte(head, '<'); lt > strings.LastIndexByte(head, '>') {
		cut = min(cut, utf8.RuneCountInString(head[:lt]))
	}
	if amp := strings.LastIndexByte(head, '&'); amp > strings.LastIndexByte(head, ';') {
		cut = min(cut, utf8.RuneCountInString(head[:amp]))
	}
	if cut == 0 {
		return limit
	}
	return cut
}

func balanceTags(parts []string) []string {
	type openTag struct{ name, raw string }
	var open []openTag

	out := make([]string, len(parts))
	for i, p := range parts {
		var b strings.Builder
		for _, o := range open {
			b.WriteString(o.raw)
		}
		b.WriteString(p)
		for _, m := range htmlTag.FindAllStringSubmatch(p, -1) {
			name := strings.ToLower(m[2])
			if m[1] == "" {
				open = append(open, openTag{name: name, raw: m[0]})
			} else if n := len(open); n > 0 && open[n-1].name == name {
				open = open[:n-1]
			}
		}
		for j := len(open) - 1; j >= 0; j-- {
			b.WriteString("</" + open[j].name + ">")
		}
		out[i] = b.String()
	}
	return out
}
