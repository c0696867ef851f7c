// Package display renders menus as framed terminal text, colored or plain.
package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"bandex/internal/collector"
	"bandex/internal/config"
	"bandex/internal/model"
	"bandex/internal/preference"
)

var (
	weekdayColor = color.RGB(153, 153, 255)
	mealColor    = color.RGB(204, 153, 255)
	likedColor   = color.New(color.FgGreen)
	dislikeColor = color.New(color.FgRed)
)

// Renderer writes menus of the configured restaurants to out, looking them
// up in a Cache. It is bound to a single run and not safe for concurrent use.
type Renderer struct {
	out         io.Writer
	cache       *collector.Cache
	restaurants []config.Restaurant
	eval        preference.Evaluator
	colored     bool
}

// New creates a Renderer. When colored is false no ANSI sequence is written.
func New(out io.Writer, cache *collector.Cache, cfg *config.Config, colored bool) *Renderer {
	return &Renderer{
		out:         out,
		cache:       cache,
		restaurants: cfg.Restaurants,
		eval:        cfg.Evaluator(),
		colored:     colored,
	}
}

// Show prints every weekday in weekdays, and for each day every meal in
// meals, for all configured restaurants in order. A restaurant that cannot
// be loaded is reported inline and the rest still print.
func (r *Renderer) Show(ctx context.Context, weekdays []time.Weekday, meals []model.MealType) error {
	for _, day := range weekdays {
		r.println(r.paint(weekdayColor, Header(H1, model.WeekdayName(day))))
		for _, meal := range meals {
			r.println(r.paint(mealColor, Header(H2, meal.String())))
			for _, rest := range r.restaurants {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.showRestaurant(ctx, rest, meal, day)
			}
		}
	}
	return nil
}

func (r *Renderer) showRestaurant(ctx context.Context, rest config.Restaurant, meal model.MealType, day time.Weekday) {
	entry, err := r.cache.Lookup(ctx, rest.ID, meal, day)
	switch {
	case errors.Is(err, collector.ErrNoMenu):
		r.errorLine(fmt.Sprintf("Nenhum cardápio encontrado para esse dia (Rest %d)", rest.ID))
		return
	case err != nil:
		r.errorLine(fmt.Sprintf("Não foi possível carregar dados desse restaurante (Rest %d)", rest.ID))
		return
	}
	r.println(r.paint(restaurantColor(rest.Color), Header(H3, entry.Name)))
	r.showMenu(entry.Menu, rest.ID)
}

func (r *Renderer) showMenu(menu model.Menu, id model.RestaurantID) {
	if menu.Closed() {
		r.println("   ✘ " + model.ClosedContent)
		r.println("")
		return
	}

	r.println("")
	for _, line := range r.eval.AnnotateContent(menu.Content, id) {
		text := line.Text
		switch line.Mark {
		case preference.Liked:
			text = r.paint(likedColor, text+" ♥")
		case preference.Disliked:
			text = r.paint(dislikeColor, text+" ✘")
		}
		r.println("   ➤  " + text)
	}
	if kcal, ok := menu.CalorieCount(); ok {
		r.println("")
		r.println(fmt.Sprintf("     Valor energético: %d kcal", kcal))
	}
	r.println("")
	r.println(fmt.Sprintf("### Observação: %s ###", menu.Observation))
	r.println("")
}

func (r *Renderer) errorLine(msg string) {
	r.println("   Erro: " + msg)
}

// ListRestaurants prints the discovered restaurant codes and names.
func (r *Renderer) ListRestaurants(restaurants []model.Restaurant) {
	r.println(r.paint(mealColor, Header(H2, "Restaurantes")))
	if len(restaurants) == 0 {
		r.errorLine("Nenhum restaurante encontrado")
		return
	}
	for _, rest := range restaurants {
		r.println(fmt.Sprintf("   %3d  %s", rest.ID, rest.Name))
	}
}

// paint wraps s in the escape codes of c unless the renderer is plain.
func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.colored {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.out, s)
}

func restaurantColor(c config.Color) *color.Color {
	if c.IsRGB() {
		return color.RGB(int(c.R), int(c.G), int(c.B))
	}
	idx := c.Index()
	if idx < 0 {
		return color.New(color.FgWhite)
	}
	base := color.FgBlack
	if c.Bright {
		base = color.FgHiBlack
	}
	return color.New(base + color.Attribute(idx))
}

// Render runs Show into a string. Used for messages that leave the terminal.
func Render(ctx context.Context, cache *collector.Cache, cfg *config.Config, weekdays []time.Weekday, meals []model.MealType) (string, error) {
	var b strings.Builder
	err := New(&b, cache, cfg, false).Show(ctx, weekdays, meals)
	return b.String(), err
}
