// Package notifier delivers booking confirmation mail through an
// EmailJS-compatible HTTP endpoint.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/doyensec/safeurl"

	"github.com/example/interview-scheduler/internal/application"
)

// NewSafeHTTPClient builds an HTTP client whose dialer rejects private,
// loopback, link-local, and metadata addresses, including after DNS
// resolution. Confirmation endpoints are operator supplied URLs, so the
// notifier never talks to internal infrastructure.
func NewSafeHTTPClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

// EmailNotifier posts a JSON mail payload for every committed reservation.
type EmailNotifier struct {
	endpoint string
	cc       []string
	client   *http.Client
	logger   *slog.Logger
}

// NewEmailNotifier wires the notifier. The client is injectable so tests can
// bypass the SSRF guarded dialer; pass nil to use a guarded client with a
// ten second timeout.
func NewEmailNotifier(endpoint string, cc []string, client *http.Client, logger *slog.Logger) *EmailNotifier {
	if client == nil {
		client = NewSafeHTTPClient(10 * time.Second)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailNotifier{
		endpoint: endpoint,
		cc:       cc,
		client:   client,
		logger:   logger,
	}
}

type mailPayload struct {
	To      string   `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// NotifyReservation sends the confirmation mail for a committed booking. The
// reservation is already stored when this runs, so errors are reported to the
// caller for logging and counting only.
func (n *EmailNotifier) NotifyReservation(ctx context.Context, reservation application.Reservation) error {
	if n == nil || n.endpoint == "" {
		return nil
	}

	payload := mailPayload{
		To:      reservation.EmployeeEmail,
		Cc:      n.cc,
		Subject: "面談予約のご確認",
		Body:    confirmationBody(reservation),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode confirmation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build confirmation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver confirmation: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("confirmation endpoint returned status %d", resp.StatusCode)
	}

	n.logger.DebugContext(ctx, "confirmation delivered",
		"reservation_id", reservation.ID, "to", reservation.EmployeeEmail)
	return nil
}

var japaneseWeekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatSlotJapanese renders a slot like "2025年1月20日(月) 19:30".
func FormatSlotJapanese(date, timeLabel string) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return strings.TrimSpace(date + " " + timeLabel)
	}
	return fmt.Sprintf("%d年%d月%d日(%s) %s",
		day.Year(), int(day.Month()), day.Day(), japaneseWeekdays[day.Weekday()], timeLabel)
}

func confirmationBody(reservation application.Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s 様\n\n", reservation.EmployeeName)
	b.WriteString("面談のご予約を承りました。\n\n")
	fmt.Fprintf(&b, "日時: %s\n\n", FormatSlotJapanese(reservation.Date, reservation.Time))
	b.WriteString("ご都合が悪くなった場合は、お手数ですが担当者までご連絡ください。\n")
	return b.String()
}
