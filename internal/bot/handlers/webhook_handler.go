package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ksaito/gomibot/internal/bot/tasks"
	"github.com/ksaito/gomibot/internal/line"
	"github.com/ksaito/gomibot/internal/schedule"
)

// signatureHeader carries the HMAC-SHA256 signature of the raw request
// body.
const signatureHeader = "X-Line-Signature"

// Stickers replied for each classification of the user's answer.
var (
	stickerDone     = line.StickerMessage{PackageID: "6370", StickerID: "11088025"}
	stickerNotYet   = line.StickerMessage{PackageID: "8515", StickerID: "16581257"}
	stickerConfused = line.StickerMessage{PackageID: "8515", StickerID: "16581263"}
)

// NewWebhookHandler creates the handler for webhook deliveries. The
// request is authenticated as a whole before any event is processed;
// events are then handled concurrently and independently, and the
// response is 500 if any of them failed.
func NewWebhookHandler(deps HandlerDeps) http.HandlerFunc {
	log := deps.Logger.With("handler", "webhook")
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.ErrorContext(r.Context(), "Failed to read webhook body", "error", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}

		if !line.ValidateSignature(deps.Config.LINE.ChannelSecret, r.Header.Get(signatureHeader), body) {
			log.WarnContext(r.Context(), "Webhook signature validation failed", "remote_addr", r.RemoteAddr)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}

		var req line.WebhookRequest
		if err := json.Unmarshal(body, &req); err != nil {
			log.ErrorContext(r.Context(), "Failed to decode webhook body", "error", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}

		// Events run concurrently without a shared cancel: one event's
		// failure must not keep the others from being attempted.
		var g errgroup.Group
		for _, event := range req.Events {
			g.Go(func() error {
				return handleEvent(r.Context(), deps, log, now, event)
			})
		}

		if err := g.Wait(); err != nil {
			log.ErrorContext(r.Context(), "Webhook event processing failed", "events", len(req.Events), "error", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	}
}

// handleEvent processes one webhook event: non-text events are ignored,
// text is classified by exact match, the matching sticker is replied,
// and an affirmative answer marks tomorrow's entry finished.
func handleEvent(ctx context.Context, deps HandlerDeps, log *slog.Logger, now func() time.Time, event line.Event) error {
	if !event.IsTextMessage() {
		return nil
	}

	var sticker line.StickerMessage
	switch event.Message.Text {
	case tasks.ReplyYes:
		sticker = stickerDone
		// Tomorrow is computed at reply time, not at prompt time. A
		// reply after local midnight lands on the next entry; this
		// mirrors the original system's behavior.
		tomorrow := schedule.NextDay(schedule.DayIndex(now(), deps.Config.Schedule.UTCOffsetHours))
		if err := deps.Store.SetFinishStatus(ctx, tomorrow, true); err != nil {
			return fmt.Errorf("failed to mark day %d finished: %w", tomorrow, err)
		}
		log.InfoContext(ctx, "Disposal acknowledged", "day", tomorrow)
	case tasks.ReplyNo:
		sticker = stickerNotYet
	default:
		sticker = stickerConfused
	}

	if err := deps.Line.Reply(ctx, event.ReplyToken, sticker); err != nil {
		return fmt.Errorf("failed to reply to event %s: %w", event.Message.ID, err)
	}

	return nil
}
