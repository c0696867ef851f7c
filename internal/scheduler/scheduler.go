package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"bandex/internal/collector"
	"bandex/internal/config"
	"bandex/internal/display"
	"bandex/internal/model"
	"bandex/internal/notifier"
)

// sendRetries is how many times a scheduled report is retried.
const sendRetries = 3

// Sender delivers a message to the chat.
type Sender interface {
	SendAll(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and chat commands of daemon mode.
type Scheduler struct {
	Cron     *cron.Cron
	Fetcher  collector.Fetcher
	Config   *config.Config
	Notifier Sender
	Logger   *zap.SugaredLogger
	Ctx      context.Context

	// Now is the clock used to pick today; replaced in tests.
	Now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, fetcher collector.Fetcher, cfg *config.Config, sender Sender, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Fetcher:  fetcher,
		Config:   cfg,
		Notifier: sender,
		Logger:   logger,
		Ctx:      ctx,
		Now:      time.Now,
	}
}

// RegisterAll registers the lunch and dinner reports.
func (s *Scheduler) RegisterAll(lunchCron, dinnerCron string) error {
	if _, err := s.Cron.AddFunc(lunchCron, func() { s.mealTask(model.Lunch) }); err != nil {
		return fmt.Errorf("register lunch task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dinnerCron, func() { s.mealTask(model.Dinner) }); err != nil {
		return fmt.Errorf("register dinner task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Infow("scheduler started", "entries", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Infow("scheduler stopped")
}

// RunNow sends today's report for meal immediately.
func (s *Scheduler) RunNow(meal model.MealType) {
	s.mealTask(meal)
}

func (s *Scheduler) mealTask(meal model.MealType) {
	s.Logger.Infow("running meal task", "meal", meal)
	report, err := s.report(s.Ctx, meal.String(), []time.Weekday{s.Now().Weekday()}, []model.MealType{meal})
	if err != nil {
		s.Logger.Errorw("render meal report", "meal", meal, "error", err)
		return
	}
	if err := s.Notifier.SendAll(s.Ctx, report, sendRetries); err != nil {
		s.Logger.Errorw("send meal report", "meal", meal, "error", err)
	}
}

// report renders the requested menus with a fresh cache, so every task
// sees current upstream data.
func (s *Scheduler) report(ctx context.Context, title string, days []time.Weekday, meals []model.MealType) (string, error) {
	cache := collector.NewCache(s.Fetcher, s.Logger)
	text, err := display.Render(ctx, cache, s.Config, days, meals)
	if err != nil {
		return "", err
	}
	return notifier.FormatMenuReport(title, s.Now(), text), nil
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	today := []time.Weekday{s.Now().Weekday()}

	var (
		report string
		err    error
	)
	switch normalize(command) {
	case "/almoco":
		report, err = s.report(ctx, model.Lunch.String(), today, []model.MealType{model.Lunch})
	case "/jantar":
		report, err = s.report(ctx, model.Dinner.String(), today, []model.MealType{model.Dinner})
	case "/hoje":
		report, err = s.report(ctx, "Hoje", today, model.MealTypes)
	case "/semana":
		report, err = s.report(ctx, "Semana", model.Workweek, model.MealTypes)
	case "/restaurantes":
		var found []model.Restaurant
		found, err = collector.Discover(ctx, s.Fetcher, 1, collector.DiscoverLimit)
		report = notifier.FormatRestaurantList(found)
	default:
		return notifier.HelpText()
	}
	if err != nil {
		s.Logger.Warnw("command failed", "command", command, "error", err)
		return "❌ Erro: " + html.EscapeString(err.Error())
	}
	return report
}

// normalize drops a trailing @botname and accents so "/Almoço@bandex_bot" is "/almoco".
func normalize(command string) string {
	command = strings.ToLower(strings.TrimSpace(command))
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	if fields := strings.Fields(command); len(fields) > 0 {
		command = fields[0]
	}
	return strings.ReplaceAll(command, "ç", "c")
}
