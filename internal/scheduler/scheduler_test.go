package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"bandex/internal/collector"
	"bandex/internal/config"
	"bandex/internal/model"
	"bandex/internal/notifier"
)

type fakeSender struct {
	texts   []string
	retries []int
	err     error
}

func (f *fakeSender) SendAll(_ context.Context, text string, maxRetries int) error {
	f.texts = append(f.texts, text)
	f.retries = append(f.retries, maxRetries)
	return f.err
}

func reply(objects ...string) string {
	return "//#DWR-REPLY\ndwr.engine.remote.handleCallback(\"0\",\"a\",[{" + strings.Join(objects, "},{") + "}]);\n"
}

func newTestScheduler(t *testing.T) (*Scheduler, *collector.MockFetcher, *fakeSender) {
	f := &collector.MockFetcher{
		Menus: map[model.RestaurantID]string{
			6: reply(
				`cdpdia:"Frango <grelhado>",diasemana:2,obscdpsmn:"",tiprfi:"A",vlrclorfi:800`,
				`cdpdia:"Sopa de legumes",diasemana:2,obscdpsmn:"",tiprfi:"J",vlrclorfi:0`,
			),
		},
		Names: map[model.RestaurantID]string{
			1: reply(`nomrtn:"Odonto"`),
			6: reply(`nomrtn:"Central"`),
		},
	}
	cfg := config.Default()
	cfg.Restaurants = []config.Restaurant{{ID: 6, Color: config.Color{Name: "blue"}}}

	sender := &fakeSender{}
	s := NewScheduler(context.Background(), f, cfg, sender, zaptest.NewLogger(t).Sugar())
	s.Now = func() time.Time { return time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC) } // Monday
	return s, f, sender
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	if err := s.RegisterAll("0 30 10 * * 1-5", "0 30 16 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
	if err := s.RegisterAll("not a cron", "0 30 16 * * 1-5"); err == nil {
		t.Error("expected error for invalid lunch cron")
	}
}

func TestRunNow_SendsLunchReport(t *testing.T) {
	s, _, sender := newTestScheduler(t)
	s.RunNow(model.Lunch)

	if len(sender.texts) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.texts))
	}
	if sender.retries[0] != 3 {
		t.Errorf("expected 3 retries, got %d", sender.retries[0])
	}
	msg := sender.texts[0]
	for _, want := range []string{"<b>Almoço</b> | 03/03/2025", "<pre>", "Frango &lt;grelhado&gt;", "Valor energético: 800 kcal"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Sopa") || strings.Contains(msg, "\x1b[") {
		t.Errorf("unexpected content in lunch report:\n%s", msg)
	}
}

func TestMealTask_FreshCachePerRun(t *testing.T) {
	s, f, _ := newTestScheduler(t)
	s.RunNow(model.Lunch)
	s.RunNow(model.Dinner)

	if f.MenuCalls[6] != 2 {
		t.Errorf("expected one fetch per run, got %d", f.MenuCalls[6])
	}
}

func TestMealTask_SendFailureIsLogged(t *testing.T) {
	s, _, sender := newTestScheduler(t)
	sender.err = errors.New("telegram down")
	s.RunNow(model.Dinner)
	if len(sender.texts) != 1 {
		t.Errorf("expected a send attempt, got %d", len(sender.texts))
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx := context.Background()

	cases := []struct {
		command string
		want    []string
		notWant []string
	}{
		{"/almoco", []string{"Frango"}, []string{"Sopa"}},
		{"/Almoço@bandex_bot", []string{"Frango"}, []string{"Sopa"}},
		{"/jantar", []string{"Sopa de legumes"}, []string{"Frango"}},
		{"/hoje", []string{"Frango", "Sopa de legumes", "Segunda-feira"}, nil},
		{"/semana", []string{"Segunda-feira", "Sexta-feira", "Nenhum cardápio encontrado para esse dia (Rest 6)"}, []string{"Sábado"}},
		{"/restaurantes", []string{"Odonto"}, []string{"Central"}},
		{"oi", []string{"/almoco", "/jantar", "/hoje", "/semana", "/restaurantes"}, nil},
	}
	for _, c := range cases {
		got := s.HandleCommand(ctx, c.command)
		for _, w := range c.want {
			if !strings.Contains(got, w) {
				t.Errorf("%s: missing %q in:\n%s", c.command, w, got)
			}
		}
		for _, w := range c.notWant {
			if strings.Contains(got, w) {
				t.Errorf("%s: unexpected %q in:\n%s", c.command, w, got)
			}
		}
	}
}

func TestHandleCommand_CancelledContext(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := s.HandleCommand(ctx, "/hoje")
	if !strings.HasPrefix(got, "❌ Erro:") {
		t.Errorf("expected error reply, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		" /ALMOCO ":          "/almoco",
		"/almoço@bandex_bot": "/almoco",
		"/semana agora":      "/semana",
		"":                   "",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
	if notifier.HelpText() == "" {
		t.Error("help text must not be empty")
	}
}
