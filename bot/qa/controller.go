// Package qa holds the question lifecycle controller: it translates actor
// input, role and conversation state into store transitions, pending-queue
// pagination and admin notification fan-out.
package qa

import (
	"context"
	"fmt"
	"os"

	"github.com/codewithmemo/memobot/bot/paging"
	"github.com/codewithmemo/memobot/bot/questions"
	"github.com/codewithmemo/memobot/bot/roster"
	"github.com/codewithmemo/memobot/core/logger"
	"github.com/codewithmemo/memobot/core/telegram/state"
	"log/slog"
)

// Conversation states owned by the controller.
const (
	// StateAwaitingQuestion marks a visitor who tapped "ask" and owes a
	// question text.
	StateAwaitingQuestion state.State = "awaiting_question"
	// StateAwaitingAnswer marks an admin who selected a question and owes
	// an answer text. The selected id travels in temp data.
	StateAwaitingAnswer state.State = "awaiting_answer"
)

const tempQuestionID = "answer_question_id"

// Courier delivers plain text to a chat. It abstracts the transport so the
// controller can be exercised without a live bot.
type Courier interface {
	SendTo(ctx context.Context, chatID int64, text string) error
}

// Controller orchestrates the question lifecycle.
type Controller struct {
	store   questions.Store
	roster  *roster.Roster
	states  state.Manager
	courier Courier
}

// New wires a controller over its collaborators.
func New(store questions.Store, r *roster.Roster, states state.Manager, courier Courier) *Controller {
	return &Controller{store: store, roster: r, states: states, courier: courier}
}

// PendingItem is one rendered entry of the pending queue.
type PendingItem struct {
	Text       string
	QuestionID int64
	Cursor     paging.Cursor
	Empty      bool
}

// SelectAsk moves the actor into the awaiting-question state and returns
// the prompt to show.
func (c *Controller) SelectAsk(userID int64) string {
	c.states.SetState(userID, StateAwaitingQuestion)
	return "❓ Please type your question. Our team will respond as soon as possible!"
}

// Cancel resets the actor's conversation to idle.
func (c *Controller) Cancel(userID int64) string {
	c.states.ClearTemp(userID, tempQuestionID)
	c.states.ClearState(userID)
	return "Okay, cancelled. Use /start to see available options."
}

// SubmitQuestion stores the question, resets the conversation and notifies
// every roster admin. A storage failure aborts the submission and leaves
// the conversation state untouched so the actor can retry; notification
// failures never fail the submission.
func (c *Controller) SubmitQuestion(ctx context.Context, userID int64, askerName, text string) (string, error) {
	rec, err := c.store.Append(ctx, questions.Record{
		AskerID:   userID,
		AskerName: askerName,
		Body:      text,
	})
	if err != nil {
		logger.LogEvent(ctx, logger.QA, slog.LevelError, "question.append_failed",
			slog.Int64("asker_id", userID),
			slog.String("err", err.Error()),
		)
		return "⚠️ Sorry, your question could not be saved. Please try again.",
			fmt.Errorf("qa: submit question: %w", err)
	}

	c.states.ClearState(userID)
	c.notifyAdmins(ctx, rec)

	return "✅ Question Received! ✅\n\n" +
		"Thank you for your question! Our team will review it and respond soon.", nil
}

// notifyAdmins fans a new-question alert out to every roster member. Each
// delivery is isolated; one unreachable admin must not block the rest.
func (c *Controller) notifyAdmins(ctx context.Context, rec questions.Record) {
	alert := fmt.Sprintf("🆕 New question #%d from %s:\n\n%s", rec.ID, rec.AskerName, rec.Body)
	notified := 0
	for _, adminID := range c.roster.IDs() {
		if err := c.courier.SendTo(ctx, adminID, alert); err != nil {
			logger.LogEvent(ctx, logger.QA, slog.LevelWarn, "notify.failed",
				slog.Int64("question_id", rec.ID),
				slog.Int64("admin_id", adminID),
				slog.String("err", err.Error()),
			)
			continue
		}
		notified++
	}
	logger.LogEvent(ctx, logger.QA, slog.LevelInfo, "notify.fanout",
		slog.Int64("question_id", rec.ID),
		slog.Int("notified", notified),
		slog.Int("total", c.roster.Size()),
	)
}

const emptyQueueText = "📭 No pending questions. All caught up!"

// PendingView takes a fresh unanswered snapshot and renders its first
// entry with a cursor at position 0.
func (c *Controller) PendingView(ctx context.Context) (PendingItem, error) {
	pending, err := c.store.ListUnanswered(ctx)
	if err != nil {
		return PendingItem{}, fmt.Errorf("qa: pending view: %w", err)
	}
	if len(pending) == 0 {
		return PendingItem{Text: emptyQueueText, Empty: true}, nil
	}
	cur := paging.Cursor{Index: 0, Total: len(pending)}
	return renderPending(pending[0], cur), nil
}

// NextPending advances the cursor cyclically within the total captured at
// cursor creation and re-renders against a fresh snapshot. A zero total
// never reaches the index arithmetic. The stale total can leave the next
// index beyond a shrunk snapshot; that renders the empty-queue view
// instead of an out-of-range access.
func (c *Controller) NextPending(ctx context.Context, cur paging.Cursor) (PendingItem, error) {
	if cur.Total == 0 {
		return PendingItem{Text: emptyQueueText, Empty: true}, nil
	}
	next := cur.Next()

	pending, err := c.store.ListUnanswered(ctx)
	if err != nil {
		return PendingItem{}, fmt.Errorf("qa: next pending: %w", err)
	}
	if len(pending) == 0 || next.Index >= len(pending) {
		return PendingItem{Text: emptyQueueText, Empty: true}, nil
	}
	return renderPending(pending[next.Index], next), nil
}

func renderPending(rec questions.Record, cur paging.Cursor) PendingItem {
	text := fmt.Sprintf("📋 Question #%d from %s (%d/%d)\n\n%s",
		rec.ID, rec.AskerName, cur.Index+1, cur.Total, rec.Body)
	return PendingItem{Text: text, QuestionID: rec.ID, Cursor: cur}
}

// SelectAnswer moves the admin into the awaiting-answer state for the given
// question id. The id is not validated here; a vanished question surfaces
// when the answer text arrives.
func (c *Controller) SelectAnswer(adminID, questionID int64) string {
	c.states.SetTemp(adminID, tempQuestionID, questionID)
	c.states.SetState(adminID, StateAwaitingAnswer)
	return fmt.Sprintf("✍️ Send your answer to question #%d.", questionID)
}

// SubmitAnswer records the answer and attempts delivery to the original
// asker. An unknown id yields a failure reply; either way the admin's
// conversation resets to idle. A storage write failure leaves the state in
// place so the admin can resend the text.
func (c *Controller) SubmitAnswer(ctx context.Context, adminID int64, adminName, text string) (string, error) {
	qid, ok := c.states.GetTempInt64(adminID, tempQuestionID)
	if !ok {
		c.states.ClearState(adminID)
		return "⚠️ Lost track of which question you were answering. Pick it again from the pending list.", nil
	}

	answered, err := c.store.MarkAnswered(ctx, qid, text, adminName)
	if err != nil {
		logger.LogEvent(ctx, logger.QA, slog.LevelError, "answer.store_failed",
			slog.Int64("question_id", qid),
			slog.Int64("admin_id", adminID),
			slog.String("err", err.Error()),
		)
		return "⚠️ Saving the answer failed. Please send it again.",
			fmt.Errorf("qa: submit answer: %w", err)
	}

	c.states.ClearTemp(adminID, tempQuestionID)
	c.states.ClearState(adminID)

	if !answered {
		logger.LogEvent(ctx, logger.QA, slog.LevelWarn, "answer.not_found",
			slog.Int64("question_id", qid),
			slog.Int64("admin_id", adminID),
		)
		return fmt.Sprintf("⚠️ Question #%d was not found. It may have been removed.", qid), nil
	}

	c.deliverAnswer(ctx, qid, text)

	return fmt.Sprintf("✅ Answer to question #%d saved and sent to the asker.", qid), nil
}

// deliverAnswer attempts best-effort delivery of the answer back to the
// asker. Failures are logged and swallowed; the answer is already durable.
func (c *Controller) deliverAnswer(ctx context.Context, questionID int64, answer string) {
	rec, found, err := c.store.FindByID(ctx, questionID)
	if err != nil || !found {
		logger.LogEvent(ctx, logger.QA, slog.LevelWarn, "deliver.lookup_failed",
			slog.Int64("question_id", questionID),
		)
		return
	}
	msg := fmt.Sprintf("💬 Your question #%d has been answered:\n\n%s", questionID, answer)
	if err := c.courier.SendTo(ctx, rec.AskerID, msg); err != nil {
		logger.LogEvent(ctx, logger.QA, slog.LevelWarn, "deliver.failed",
			slog.Int64("question_id", questionID),
			slog.Int64("asker_id", rec.AskerID),
			slog.String("err", err.Error()),
		)
	}
}

// PendingCount returns the current number of unanswered questions.
func (c *Controller) PendingCount(ctx context.Context) (int, error) {
	pending, err := c.store.ListUnanswered(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// Debug renders the admin diagnostic dump: own id, the roster, the pending
// count and whether the backing store file is present on disk. The file
// check is opt-in: only stores exposing their location via a
// `Path() string` method are probed, any other Store reports false.
func (c *Controller) Debug(ctx context.Context, adminID int64) string {
	pending, err := c.store.ListUnanswered(ctx)
	pendingCount := len(pending)
	storeOK := err == nil

	storePresent := false
	if p, ok := c.store.(interface{ Path() string }); ok {
		if _, statErr := os.Stat(p.Path()); statErr == nil {
			storePresent = true
		}
	}

	return fmt.Sprintf("🔧 Debug\n\nYour id: %d\nRoster: %v\nPending questions: %d\nStore readable: %v\nStore file present: %v",
		adminID, c.roster.IDs(), pendingCount, storeOK, storePresent)
}
