package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ksaito/gomibot/internal/database"
	"github.com/ksaito/gomibot/internal/line"
	"github.com/ksaito/gomibot/internal/schedule"
)

const reminderAltText = "今日のゴミ捨てメッセージ"

// Reply labels offered by the confirm prompt. The webhook handler
// classifies incoming text against the same literals.
const (
	ReplyYes = "はい"
	ReplyNo  = "いいえ"
)

// NewGarbageReminderTask creates the reminder task. One run, in order:
// reset today's finish flag, fetch tomorrow's entry, and push a
// reminder unless the entry was already acknowledged. Steps are not
// rolled back on later failure; a failed push leaves the reset in
// place, which the next run repeats harmlessly.
//
// Exported because the manual trigger endpoint runs the same task.
func NewGarbageReminderTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", TaskGarbageReminder)
	offset := deps.Config.Schedule.UTCOffsetHours
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return func(ctx context.Context) error {
		today := schedule.DayIndex(now(), offset)
		if err := deps.Store.SetFinishStatus(ctx, today, false); err != nil {
			return fmt.Errorf("failed to reset finish status for day %d: %w", today, err)
		}

		tomorrow := schedule.NextDay(today)
		entry, err := deps.Store.GetEntry(ctx, tomorrow)
		if err != nil {
			return fmt.Errorf("failed to fetch schedule entry for day %d: %w", tomorrow, err)
		}

		if entry.FinishStatus {
			log.InfoContext(ctx, "Entry already acknowledged, no reminder sent", "day", tomorrow)
			return nil
		}

		msg := composeReminder(entry)
		if err := deps.Line.Push(ctx, deps.Config.LINE.UserID, msg); err != nil {
			return fmt.Errorf("failed to push reminder for day %d: %w", tomorrow, err)
		}

		log.InfoContext(ctx, "Reminder sent", "day", tomorrow, "no_collection", entry.Items.NoCollection())
		return nil
	}
}

// composeReminder builds the outbound message for an entry: a plain
// notice when nothing is collected, otherwise a confirm prompt listing
// the items one per line.
func composeReminder(entry *database.ScheduleEntry) line.Message {
	if entry.Items.NoCollection() {
		return line.TextMessage{
			Text: fmt.Sprintf("%sのゴミはありません", entry.DayOfWeek),
		}
	}

	return line.ConfirmMessage{
		AltText:  reminderAltText,
		Text:     fmt.Sprintf("%sのゴミは以下です\n捨てましたか？\n%s", entry.DayOfWeek, strings.Join(entry.Items, "\n")),
		YesLabel: ReplyYes,
		NoLabel:  ReplyNo,
	}
}
