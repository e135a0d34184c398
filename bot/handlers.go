package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/codewithmemo/memobot/bot/paging"
	"github.com/codewithmemo/memobot/bot/qa"
	coretelegram "github.com/codewithmemo/memobot/core/telegram"
	"github.com/codewithmemo/memobot/core/telegram/callbacks"
	"github.com/codewithmemo/memobot/core/telegram/commands"
	tghelpers "github.com/codewithmemo/memobot/core/telegram/helpers"
	"github.com/codewithmemo/memobot/core/telegram/keyboard"
	"github.com/codewithmemo/memobot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Callback unique keys.
const (
	cbAbout     = "about"
	cbResources = "resources"
	cbContact   = "contact"
	cbHelpMenu  = "help_menu"
	cbAsk       = "ask"
	cbCancel    = "cancel"
	cbPending   = "pending"
	cbNext      = "qnext"
	cbAnswer    = "answer"
	cbStats     = "stats"
)

const storeTimeout = 5 * time.Second

// storeContext bounds store I/O with a deadline derived from the update
// context.
func storeContext(c tele.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(tghelpers.BuildContext(c), storeTimeout)
}

func actorName(u *tele.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Show the main menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Show the help message",
	})
	reg.RegisterCommand("/debug", commands.Command{
		Handler:     a.handleDebug,
		Description: "Diagnostic dump",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(a.handleFallbackText)
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	for key, h := range map[string]tele.HandlerFunc{
		cbAbout:     a.handleAbout,
		cbResources: a.handleResources,
		cbContact:   a.handleContact,
		cbHelpMenu:  a.handleHelpMenu,
		cbAsk:       a.handleAsk,
		cbCancel:    a.handleCancel,
		cbPending:   a.adminOnly(a.handlePending),
		cbNext:      a.adminOnly(a.handleNext),
		cbAnswer:    a.adminOnly(a.handleAnswer),
		cbStats:     a.adminOnly(a.handleStats),
	} {
		if err := reg.RegisterCallback(key, h); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) registerStates() {
	state.RegisterHandler(qa.StateAwaitingQuestion, a.handleQuestionText)
	state.RegisterHandler(qa.StateAwaitingAnswer, a.handleAnswerText)
}

// adminOnly silently drops callbacks from actors outside the roster.
func (a *App) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !a.roster.IsAdmin(c.Sender().ID) {
			return nil
		}
		return next(c)
	}
}

func (a *App) menuMarkup(isAdmin bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{
			{Text: "About Channel", Unique: cbAbout},
			{Text: "Resources", Unique: cbResources},
		},
		{
			{Text: "Ask Question", Unique: cbAsk},
			{Text: "Contact Admin", Unique: cbContact},
		},
		{
			{Text: "Help", Unique: cbHelpMenu},
		},
	}
	if isAdmin {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "📋 Pending questions", Unique: cbPending},
			{Text: "📊 Channel stats", Unique: cbStats},
		})
	}
	return keyboard.InlineButtonsRows(rows...)
}

func (a *App) handleStart(c tele.Context) error {
	sender := c.Sender()
	markup := a.menuMarkup(a.roster.IsAdmin(sender.ID))
	return tghelpers.SendText(c, a.views.Greeting(sender.FirstName), &tele.SendOptions{ReplyMarkup: markup})
}

func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.SendMD(c, a.views.Help())
}

func (a *App) handleDebug(c tele.Context) error {
	ctx, cancel := storeContext(c)
	defer cancel()
	return tghelpers.SendText(c, a.ctl.Debug(ctx, c.Sender().ID))
}

func (a *App) handleFallbackText(c tele.Context) error {
	return tghelpers.SendText(c, "Thanks for your message! Use /start to see available options.")
}

func (a *App) handleAbout(c tele.Context) error {
	return tghelpers.EditOrSendText(c, a.views.About())
}

func (a *App) handleResources(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, a.views.Resources())
}

func (a *App) handleContact(c tele.Context) error {
	return tghelpers.EditOrSendText(c, a.views.Contact())
}

func (a *App) handleHelpMenu(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, a.views.Help())
}

func (a *App) handleAsk(c tele.Context) error {
	prompt := a.ctl.SelectAsk(c.Sender().ID)
	return tghelpers.EditOrSendText(c, prompt, keyboard.SingleCancelMarkup(cbCancel))
}

func (a *App) handleCancel(c tele.Context) error {
	return tghelpers.EditOrSendText(c, a.ctl.Cancel(c.Sender().ID))
}

func (a *App) handlePending(c tele.Context) error {
	ctx, cancel := storeContext(c)
	defer cancel()

	item, err := a.ctl.PendingView(ctx)
	if err != nil {
		return err
	}
	return a.renderPending(c, item)
}

func (a *App) handleNext(c tele.Context) error {
	cur, err := paging.Decode(callbacks.CallbackPayload(c))
	if err != nil {
		return tghelpers.EditOrSendText(c, "⚠️ That navigation token is no longer valid. Reopen the pending list.")
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	item, nerr := a.ctl.NextPending(ctx, cur)
	if nerr != nil {
		return nerr
	}
	return a.renderPending(c, item)
}

func (a *App) renderPending(c tele.Context, item qa.PendingItem) error {
	if item.Empty {
		return tghelpers.EditOrSendText(c, item.Text)
	}
	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✍️ Answer", Unique: cbAnswer, Data: strconv.FormatInt(item.QuestionID, 10)},
		{Text: "➡️ Next", Unique: cbNext, Data: item.Cursor.Encode()},
	})
	return tghelpers.EditOrSendText(c, item.Text, markup)
}

func (a *App) handleAnswer(c tele.Context) error {
	qid, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.EditOrSendText(c, "⚠️ Could not read the question id. Reopen the pending list.")
	}
	prompt := a.ctl.SelectAnswer(c.Sender().ID, qid)
	return tghelpers.EditOrSendText(c, prompt, keyboard.SingleCancelMarkup(cbCancel))
}

func (a *App) handleStats(c tele.Context) error {
	ctx, cancel := storeContext(c)
	defer cancel()

	pending, err := a.ctl.PendingCount(ctx)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendText(c, a.views.Stats(pending, a.roster.Size()))
}

// handleQuestionText consumes the visitor's message while they are in the
// awaiting-question state.
func (a *App) handleQuestionText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, "❓ Please send your question as text.")
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	reply, err := a.ctl.SubmitQuestion(ctx, c.Sender().ID, actorName(c.Sender()), text)
	if serr := tghelpers.SendText(c, reply); serr != nil {
		return serr
	}
	return err
}

// handleAnswerText consumes the admin's message while they are in the
// awaiting-answer state.
func (a *App) handleAnswerText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, "✍️ Please send the answer as text.")
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	reply, err := a.ctl.SubmitAnswer(ctx, c.Sender().ID, actorName(c.Sender()), text)
	if serr := tghelpers.SendText(c, reply); serr != nil {
		return serr
	}
	return err
}
