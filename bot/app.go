// Package bot wires the question lifecycle controller and the channel
// views onto the Telegram runtime.
package bot

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/codewithmemo/memobot/bot/content"
	"github.com/codewithmemo/memobot/bot/qa"
	"github.com/codewithmemo/memobot/bot/questions"
	"github.com/codewithmemo/memobot/bot/roster"
	"github.com/codewithmemo/memobot/core/bootstrap"
	corecmd "github.com/codewithmemo/memobot/core/cmd"
	coreconfig "github.com/codewithmemo/memobot/core/config"
	coretelegram "github.com/codewithmemo/memobot/core/telegram"
	"github.com/codewithmemo/memobot/core/telegram/router"
	"github.com/codewithmemo/memobot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// Config carries the loaded core configuration for the runner.
type Config struct {
	core *coreconfig.Config
}

// CoreConfig implements corecmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	return c.core
}

// LoadConfig reads and validates the YAML configuration.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{core: cfg}, nil
}

// App is the assembled bot application.
type App struct {
	cfg     *coreconfig.Config
	store   *questions.FileStore
	roster  *roster.Roster
	states  state.Manager
	views   *content.Views
	courier *telebotCourier
	ctl     *qa.Controller
}

// Bootstrap initializes logging, opens the question store and assembles
// the application.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	res, err := bootstrap.Run(bootstrap.Options[*questions.FileStore]{
		Config: cfg,
		OpenStore: func(cfg *coreconfig.Config) (*questions.FileStore, error) {
			return questions.NewFileStore(cfg.Storage.QuestionsFile)
		},
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		store:   res.Store,
		roster:  roster.New(cfg.Telegram.AdminIDs),
		states:  state.NewMemoryManager(),
		views:   content.NewViews(cfg.Channel),
		courier: &telebotCourier{},
	}
	app.ctl = qa.New(app.store, app.roster, app.states, app.courier)
	return app, nil
}

// TelegramRunOptions implements corecmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	a.registerStates()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{Roster: a.roster})
	routes = append(routes, router.TextRoutes(a.states, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.courier.attach(rt.Bot)
			return nil
		},
	}, nil
}

// telebotCourier sends controller messages through the live bot. The bot
// handle only exists once the runtime has started, so it is attached late.
type telebotCourier struct {
	bot atomic.Pointer[tele.Bot]
}

func (t *telebotCourier) attach(b *tele.Bot) {
	t.bot.Store(b)
}

// SendTo implements qa.Courier.
func (t *telebotCourier) SendTo(_ context.Context, chatID int64, text string) error {
	b := t.bot.Load()
	if b == nil {
		return errors.New("bot: transport not started")
	}
	_, err := b.Send(&tele.User{ID: chatID}, text)
	return err
}
